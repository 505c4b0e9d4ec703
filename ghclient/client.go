/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/contribcheck/contribcheck/checkrun"
	"github.com/contribcheck/contribcheck/guidelines"
)

// maxRawBody bounds how much of a linked document we will read. Linked
// guideline documents are prose; anything past this is not worth judging.
const maxRawBody = 1 << 20

// Client wraps the GitHub REST and GraphQL clients.
type Client struct {
	gh  *github.Client
	gql *githubv4.Client
}

// NewWithToken creates a client authenticated with a personal access
// token or an Actions-provided GITHUB_TOKEN.
func NewWithToken(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return &Client{
		gh:  github.NewClient(hc),
		gql: githubv4.NewClient(hc),
	}, nil
}

// NewAppInstallation creates a client authenticated as a GitHub App
// installation using a private key file.
func NewAppInstallation(appID, installationID int64, keyPath string) (*Client, error) {
	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	hc := &http.Client{Transport: itr}
	return &Client{
		gh:  github.NewClient(hc),
		gql: githubv4.NewClient(hc),
	}, nil
}

// FileContent fetches a file's decoded content from the default branch.
// A missing file is reported as guidelines.ErrNotFound.
func (c *Client) FileContent(ctx context.Context, owner, repo, path string) (string, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", path, guidelines.ErrNotFound)
		}
		return "", fmt.Errorf("fetching %s: %w", path, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is not a file", path)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

// RawURL fetches the body of a raw content URL using the authenticated
// HTTP client.
func (c *Client) RawURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := c.gh.Client().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", url, guidelines.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRawBody))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}
	return r.GetDefaultBranch(), nil
}

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Filename string
	Status   string
	Patch    string
}

// ChangedFiles lists every file changed by the pull request, following
// pagination.
func (c *Client) ChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	var changed []ChangedFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing changed files: %w", err)
		}
		for _, f := range files {
			changed = append(changed, ChangedFile{
				Filename: f.GetFilename(),
				Status:   f.GetStatus(),
				Patch:    f.GetPatch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return changed, nil
}

// RawDiff fetches the whole pull request as one unified diff.
func (c *Client) RawDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("fetching raw diff: %w", err)
	}
	return diff, nil
}

// CreateCheckRun posts a completed check run for the given head SHA.
func (c *Client) CreateCheckRun(ctx context.Context, owner, repo, name, headSHA string, report *checkrun.Report) error {
	_, _, err := c.gh.Checks.CreateCheckRun(ctx, owner, repo, github.CreateCheckRunOptions{
		Name:       name,
		HeadSHA:    headSHA,
		Status:     github.Ptr("completed"),
		Conclusion: github.Ptr(report.Conclusion),
		Output: &github.CheckRunOutput{
			Title:       github.Ptr(report.Title),
			Summary:     github.Ptr(report.Summary),
			Annotations: report.Annotations,
		},
	})
	if err != nil {
		return fmt.Errorf("creating check run: %w", err)
	}
	return nil
}

// UpdateCheckRun replaces the output of an existing check run.
func (c *Client) UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, name string, report *checkrun.Report) error {
	_, _, err := c.gh.Checks.UpdateCheckRun(ctx, owner, repo, checkRunID, github.UpdateCheckRunOptions{
		Name:       name,
		Status:     github.Ptr("completed"),
		Conclusion: github.Ptr(report.Conclusion),
		Output: &github.CheckRunOutput{
			Title:       github.Ptr(report.Title),
			Summary:     github.Ptr(report.Summary),
			Annotations: report.Annotations,
		},
	})
	if err != nil {
		return fmt.Errorf("updating check run: %w", err)
	}
	return nil
}

// PostComment adds a plain issue comment to the pull request.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}

// PostReview posts a non-blocking review carrying inline comments
// addressed by diff position.
func (c *Client) PostReview(ctx context.Context, owner, repo string, number int, comments []*github.DraftReviewComment) error {
	if len(comments) == 0 {
		return nil
	}
	_, _, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, &github.PullRequestReviewRequest{
		Event:    github.Ptr("COMMENT"),
		Comments: comments,
	})
	if err != nil {
		return fmt.Errorf("posting review: %w", err)
	}
	return nil
}

// AssignIssue adds assignees to an issue or pull request.
func (c *Client) AssignIssue(ctx context.Context, owner, repo string, number int, assignees ...string) error {
	_, _, err := c.gh.Issues.AddAssignees(ctx, owner, repo, number, assignees)
	if err != nil {
		return fmt.Errorf("assigning issue: %w", err)
	}
	return nil
}
