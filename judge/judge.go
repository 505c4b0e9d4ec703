/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"

	"github.com/contribcheck/contribcheck/diffmap"
)

// Verdict is a description-level judgment.
type Verdict struct {
	CommentNeeded bool   `json:"comment_needed"`
	Comment       string `json:"comment"`
	Reasoning     string `json:"reasoning,omitempty"`
}

// Finding is one code-level judgment. Position is the 0-based index into
// the diff record sequence that was presented for the file, not a line
// number; the aggregator maps it back to file coordinates.
type Finding struct {
	Position int    `json:"position"`
	Comment  string `json:"comment"`
}

// Interface is the judgment collaborator the pipeline depends on.
type Interface interface {
	// JudgeDescription evaluates a PR description against the guidelines.
	JudgeDescription(ctx context.Context, guidelines, description string) (Verdict, error)
	// JudgeFile evaluates one file's retained diff lines against the
	// guidelines and returns zero or more findings addressed by record
	// index.
	JudgeFile(ctx context.Context, guidelines, filename string, records []diffmap.Record) ([]Finding, error)
}
