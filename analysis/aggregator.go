/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package analysis

import (
	"context"

	"github.com/chainguard-dev/clog"

	"github.com/contribcheck/contribcheck/diffmap"
	"github.com/contribcheck/contribcheck/judge"
)

// FileJudgment pairs one changed file's diff records with the findings
// the judge produced for them.
type FileJudgment struct {
	Filename string
	Records  []diffmap.Record
	Findings []judge.Finding
}

// Aggregate assembles the description verdict and per-file judgments into
// one ledger. The description violation, when present, comes first;
// per-file violations follow in the order the files were supplied. A
// finding whose position does not address a record is dropped.
func Aggregate(ctx context.Context, verdict judge.Verdict, files []FileJudgment) *Result {
	log := clog.FromContext(ctx)

	var details []Violation

	if verdict.CommentNeeded {
		message := verdict.Comment
		if message == "" {
			// A comment-needed signal always becomes a violation, even
			// when the repaired verdict lost its comment text.
			message = "The pull request description does not meet the contributing guidelines."
		}
		details = append(details, Violation{
			File:     DescriptionFile,
			Line:     0,
			Message:  message,
			Severity: SeverityError,
		})
	}

	for _, file := range files {
		for _, finding := range file.Findings {
			if finding.Position < 0 || finding.Position >= len(file.Records) {
				log.With("file", file.Filename).
					With("position", finding.Position).
					With("records", len(file.Records)).
					Warn("Judgment finding addresses no diff record, dropping")
				continue
			}
			details = append(details, Violation{
				File:     file.Filename,
				Line:     file.Records[finding.Position].NewLine,
				Message:  finding.Comment,
				Severity: SeverityError,
			})
		}
	}

	return &Result{
		Summary: summarize(len(details)),
		details: details,
	}
}
