/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package checkrun

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contribcheck/contribcheck/analysis"
	"github.com/contribcheck/contribcheck/diffmap"
	"github.com/contribcheck/contribcheck/judge"
)

// resultWith builds a Result through the aggregator so the test exercises
// the same ledger shape the pipeline produces.
func resultWith(t *testing.T, verdict judge.Verdict, files []analysis.FileJudgment) *analysis.Result {
	t.Helper()
	return analysis.Aggregate(context.Background(), verdict, files)
}

func fileWithFindings(name string, findings ...judge.Finding) analysis.FileJudgment {
	records := make([]diffmap.Record, 0, len(findings))
	for i := range findings {
		records = append(records, diffmap.Record{
			Text:     fmt.Sprintf("line %d", i),
			Position: i + 1,
			NewLine:  i + 10,
		})
	}
	return analysis.FileJudgment{Filename: name, Records: records, Findings: findings}
}

func TestBuild_Skipped(t *testing.T) {
	t.Parallel()
	report := Build(analysis.SkippedResult())

	assert.Equal(t, "neutral", report.Conclusion)
	assert.Empty(t, report.Annotations)
	assert.Contains(t, report.Summary, "No contributing guidelines found")
}

func TestBuild_NoViolations(t *testing.T) {
	t.Parallel()
	report := Build(resultWith(t, judge.Verdict{}, nil))

	assert.Equal(t, "success", report.Conclusion)
	assert.Equal(t, "No violations found", report.Title)
	assert.Contains(t, report.Summary, "✅")
	assert.Empty(t, report.Annotations)
}

func TestBuild_ViolationsGroupedInSupplyOrder(t *testing.T) {
	t.Parallel()
	files := []analysis.FileJudgment{
		fileWithFindings("pkg/server.go", judge.Finding{Position: 0, Comment: "Missing error wrap"}),
		fileWithFindings("cmd/main.go", judge.Finding{Position: 0, Comment: "Remove debug print"}),
	}
	report := Build(resultWith(t, judge.Verdict{}, files))

	assert.Equal(t, "failure", report.Conclusion)
	assert.Equal(t, "2 guideline violation(s) found", report.Title)

	// One markdown section per file, in the order files were supplied.
	first := strings.Index(report.Summary, "### pkg/server.go")
	second := strings.Index(report.Summary, "### cmd/main.go")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)

	assert.Contains(t, report.Summary, "Line 10: Missing error wrap")
	assert.Contains(t, report.Summary, "Line 10: Remove debug print")
}

func TestBuild_DescriptionViolationHasNoLine(t *testing.T) {
	t.Parallel()
	verdict := judge.Verdict{CommentNeeded: true, Comment: "This pull request is missing a description."}
	report := Build(resultWith(t, verdict, nil))

	assert.Equal(t, "failure", report.Conclusion)
	assert.Contains(t, report.Summary, "### PR Description")
	assert.Contains(t, report.Summary, "❌ This pull request is missing a description.")
	assert.NotContains(t, report.Summary, "Line 0")

	// Description violations carry no file coordinate, so no annotation.
	assert.Empty(t, report.Annotations)
}

func TestBuild_AnnotationsCapped(t *testing.T) {
	t.Parallel()
	findings := make([]judge.Finding, 60)
	for i := range findings {
		findings[i] = judge.Finding{Position: i, Comment: fmt.Sprintf("violation %d", i)}
	}
	files := []analysis.FileJudgment{fileWithFindings("big.go", findings...)}

	result := resultWith(t, judge.Verdict{}, files)
	require.Equal(t, 60, result.Count())

	report := Build(result)

	assert.Len(t, report.Annotations, MaxAnnotations)
	assert.Contains(t, report.Summary, "Only the first 50 violations are annotated inline")

	// The summary still lists every violation.
	assert.Contains(t, report.Summary, "violation 59")
}

func TestBuild_AnnotationFields(t *testing.T) {
	t.Parallel()
	files := []analysis.FileJudgment{
		fileWithFindings("main.go", judge.Finding{Position: 0, Comment: "Avoid panics"}),
	}
	report := Build(resultWith(t, judge.Verdict{}, files))

	require.Len(t, report.Annotations, 1)
	ann := report.Annotations[0]
	assert.Equal(t, "main.go", ann.GetPath())
	assert.Equal(t, 10, ann.GetStartLine())
	assert.Equal(t, 10, ann.GetEndLine())
	assert.Equal(t, "failure", ann.GetAnnotationLevel())
	assert.Equal(t, "Avoid panics", ann.GetMessage())
}

func TestBuild_WithDiffSummary(t *testing.T) {
	t.Parallel()
	report := Build(resultWith(t, judge.Verdict{}, nil),
		WithDiffSummary(diffmap.Summary{Files: 3, Additions: 12, Deletions: 4}))

	assert.Contains(t, report.Summary, "3 file(s) changed, +12/-4")
}

func TestReviewComments(t *testing.T) {
	t.Parallel()
	files := []analysis.FileJudgment{{
		Filename: "main.go",
		Records: []diffmap.Record{
			{Text: "a", Position: 3, NewLine: 7},
			{Text: "b", Position: 4, NewLine: 8},
		},
		Findings: []judge.Finding{
			{Position: 1, Comment: "Use the logger"},
			{Position: 9, Comment: "out of range, skipped"},
		},
	}}

	comments := ReviewComments(files)

	require.Len(t, comments, 1)
	assert.Equal(t, "main.go", comments[0].GetPath())
	assert.Equal(t, 4, comments[0].GetPosition())
	assert.Equal(t, "Use the logger", comments[0].GetBody())
}
