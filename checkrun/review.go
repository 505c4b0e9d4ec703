/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package checkrun

import (
	"github.com/google/go-github/v84/github"

	"github.com/contribcheck/contribcheck/analysis"
)

// ReviewComments converts per-file judgments into draft review comments
// addressed by diff position, the coordinate the review API expects.
// Findings that address no diff record are skipped.
func ReviewComments(files []analysis.FileJudgment) []*github.DraftReviewComment {
	var comments []*github.DraftReviewComment
	for _, file := range files {
		for _, finding := range file.Findings {
			if finding.Position < 0 || finding.Position >= len(file.Records) {
				continue
			}
			record := file.Records[finding.Position]
			comments = append(comments, &github.DraftReviewComment{
				Path:     github.Ptr(file.Filename),
				Position: github.Ptr(record.Position),
				Body:     github.Ptr(finding.Comment),
			})
		}
	}
	return comments
}
