/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package analysis

import "fmt"

// Severity classifies how a violation is surfaced in the check run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DescriptionFile is the pseudo-filename used for violations raised
// against the PR description rather than a changed file.
const DescriptionFile = "PR Description"

// Violation is one entry in the ledger. Line is the new-file line number,
// or 0 for violations without a file coordinate.
type Violation struct {
	File     string
	Line     int
	Message  string
	Severity Severity
}

// Result is the outcome of analyzing one pull request. The derived
// accessors keep the found/count/details views consistent with each
// other.
type Result struct {
	// Skipped is true when no guidelines document exists, so no
	// judgment was performed.
	Skipped bool

	// Summary is a short human-readable account of the analysis.
	Summary string

	details []Violation
}

// Violations returns the ledger entries in report order.
func (r *Result) Violations() []Violation {
	return r.details
}

// Found reports whether any violation was recorded.
func (r *Result) Found() bool {
	return len(r.details) > 0
}

// Count returns the number of recorded violations.
func (r *Result) Count() int {
	return len(r.details)
}

// SkippedResult returns the result used when a repository has no
// contributing guidelines.
func SkippedResult() *Result {
	return &Result{
		Skipped: true,
		Summary: "No contributing guidelines found, analysis skipped.",
	}
}

func summarize(n int) string {
	if n == 0 {
		return "No guideline violations found."
	}
	return fmt.Sprintf("%d guideline violation(s) found.", n)
}
