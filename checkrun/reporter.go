/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package checkrun

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v84/github"

	"github.com/contribcheck/contribcheck/analysis"
	"github.com/contribcheck/contribcheck/diffmap"
)

// MaxAnnotations is the most inline annotations attached to a single
// check run. GitHub rejects payloads with more than 50 annotations per
// request, so the remainder is reported in the summary only.
const MaxAnnotations = 50

// Report is the payload posted to the check-run API.
type Report struct {
	Conclusion  string
	Title       string
	Summary     string
	Annotations []*github.CheckRunAnnotation
}

// Option configures report rendering.
type Option func(*builder)

// WithDiffSummary includes whole-PR diff statistics in the report header.
func WithDiffSummary(stat diffmap.Summary) Option {
	return func(b *builder) {
		b.stat = &stat
	}
}

type builder struct {
	stat *diffmap.Summary
}

// Build renders the analysis result into a check-run report.
func Build(result *analysis.Result, opts ...Option) *Report {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	if result.Skipped {
		return &Report{
			Conclusion: "neutral",
			Title:      "Contributing guidelines check skipped",
			Summary:    result.Summary,
		}
	}

	if !result.Found() {
		return &Report{
			Conclusion: "success",
			Title:      "No violations found",
			Summary:    b.renderSummary(result),
		}
	}

	return &Report{
		Conclusion:  "failure",
		Title:       fmt.Sprintf("%d guideline violation(s) found", result.Count()),
		Summary:     b.renderSummary(result),
		Annotations: buildAnnotations(result.Violations()),
	}
}

// renderSummary produces the markdown body, grouping violations by file
// in the order each file first appears in the ledger.
func (b *builder) renderSummary(result *analysis.Result) string {
	var sb strings.Builder

	sb.WriteString("## Contributing Guidelines Check\n\n")
	if b.stat != nil {
		fmt.Fprintf(&sb, "Reviewed %s.\n\n", b.stat)
	}

	violations := result.Violations()
	if len(violations) == 0 {
		sb.WriteString("✅ All changes comply with the contributing guidelines.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d violation(s) of the contributing guidelines.\n", len(violations))

	var order []string
	grouped := make(map[string][]analysis.Violation)
	for _, v := range violations {
		if _, seen := grouped[v.File]; !seen {
			order = append(order, v.File)
		}
		grouped[v.File] = append(grouped[v.File], v)
	}

	for _, file := range order {
		fmt.Fprintf(&sb, "\n### %s\n\n", file)
		for _, v := range grouped[file] {
			icon := "⚠️"
			if v.Severity == analysis.SeverityError {
				icon = "❌"
			}
			if v.Line > 0 {
				fmt.Fprintf(&sb, "- %s Line %d: %s\n", icon, v.Line, v.Message)
			} else {
				fmt.Fprintf(&sb, "- %s %s\n", icon, v.Message)
			}
		}
	}

	if annotatable := countAnnotatable(violations); annotatable > MaxAnnotations {
		fmt.Fprintf(&sb, "\nOnly the first %d violations are annotated inline; see the list above for the rest.\n", MaxAnnotations)
	}

	sb.WriteString("\nPlease update the pull request to address the items above.\n")
	return sb.String()
}

// buildAnnotations converts violations with file coordinates into inline
// annotations, capped at MaxAnnotations.
func buildAnnotations(violations []analysis.Violation) []*github.CheckRunAnnotation {
	var annotations []*github.CheckRunAnnotation
	for _, v := range violations {
		if v.Line <= 0 || v.File == analysis.DescriptionFile {
			continue
		}
		if len(annotations) >= MaxAnnotations {
			break
		}
		level := "warning"
		if v.Severity == analysis.SeverityError {
			level = "failure"
		}
		annotations = append(annotations, &github.CheckRunAnnotation{
			Path:            github.Ptr(v.File),
			StartLine:       github.Ptr(v.Line),
			EndLine:         github.Ptr(v.Line),
			AnnotationLevel: github.Ptr(level),
			Title:           github.Ptr("Contributing guideline violation"),
			Message:         github.Ptr(v.Message),
		})
	}
	return annotations
}

func countAnnotatable(violations []analysis.Violation) int {
	n := 0
	for _, v := range violations {
		if v.Line > 0 && v.File != analysis.DescriptionFile {
			n++
		}
	}
	return n
}
