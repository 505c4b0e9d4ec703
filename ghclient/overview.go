/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghclient

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
)

// PROverview is the metadata needed to analyze a pull request.
type PROverview struct {
	Number  int
	Title   string
	Body    string
	HeadSHA string
	State   string
}

// Overview fetches pull request metadata in a single GraphQL query.
func (c *Client) Overview(ctx context.Context, owner, repo string, number int) (*PROverview, error) {
	var q struct {
		Repository struct {
			PullRequest struct {
				Number     githubv4.Int
				Title      githubv4.String
				Body       githubv4.String
				State      githubv4.String
				HeadRefOid githubv4.GitObjectID
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	vars := map[string]any{
		"owner":  githubv4.String(owner),
		"repo":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("querying pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	pr := q.Repository.PullRequest
	return &PROverview{
		Number:  int(pr.Number),
		Title:   string(pr.Title),
		Body:    string(pr.Body),
		HeadSHA: string(pr.HeadRefOid),
		State:   string(pr.State),
	}, nil
}
