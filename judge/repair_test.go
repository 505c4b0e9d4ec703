/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseVerdict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want Verdict
	}{{
		name: "strict JSON",
		raw:  `{"comment_needed": true, "comment": "Missing issue link", "reasoning": "Guidelines require a linked issue"}`,
		want: Verdict{CommentNeeded: true, Comment: "Missing issue link", Reasoning: "Guidelines require a linked issue"},
	}, {
		name: "sentinel token",
		raw:  "NO_COMMENT_NEEDED",
		want: Verdict{CommentNeeded: false, Comment: ""},
	}, {
		name: "sentinel with trailing explanation",
		raw:  "NO_COMMENT_NEEDED - the description follows all the guidelines.",
		want: Verdict{CommentNeeded: false, Comment: ""},
	}, {
		name: "fenced JSON",
		raw:  "```json\n{\"comment_needed\": true, \"comment\": \"Too terse\"}\n```",
		want: Verdict{CommentNeeded: true, Comment: "Too terse"},
	}, {
		name: "truncated inside string",
		raw:  `{"comment_needed": true, "comment": "Please add`,
		want: Verdict{CommentNeeded: true, Comment: "Please add", Reasoning: "Repaired from malformed JSON response"},
	}, {
		name: "missing opening brace",
		raw:  `"comment_needed": true, "comment": "Please add a summary"}`,
		want: Verdict{CommentNeeded: true, Comment: "Please add a summary", Reasoning: "Repaired from malformed JSON response"},
	}, {
		name: "truncated after value",
		raw:  `{"comment_needed": false, "comment": ""`,
		want: Verdict{CommentNeeded: false, Comment: "", Reasoning: "Repaired from malformed JSON response"},
	}, {
		name: "garbage falls back to safe default",
		raw:  "I am unable to evaluate this pull request.",
		want: Verdict{CommentNeeded: false, Comment: "", Reasoning: "Unparsable judgment response, defaulting to no comment"},
	}, {
		name: "empty response falls back to safe default",
		raw:  "",
		want: Verdict{CommentNeeded: false, Comment: "", Reasoning: "Unparsable judgment response, defaulting to no comment"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseVerdict(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseVerdict() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFindings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want []Finding
	}{{
		name: "strict JSON array",
		raw:  `[{"position": 0, "comment": "Use structured logging"}, {"position": 3, "comment": "Missing error wrap"}]`,
		want: []Finding{
			{Position: 0, Comment: "Use structured logging"},
			{Position: 3, Comment: "Missing error wrap"},
		},
	}, {
		name: "sentinel token",
		raw:  "NO_COMMENT_NEEDED",
		want: nil,
	}, {
		name: "fenced array",
		raw:  "```json\n[{\"position\": 2, \"comment\": \"Avoid panics\"}]\n```",
		want: []Finding{{Position: 2, Comment: "Avoid panics"}},
	}, {
		name: "truncated array",
		raw:  `[{"position": 1, "comment": "Add a test"}`,
		want: []Finding{{Position: 1, Comment: "Add a test"}},
	}, {
		name: "truncated inside string",
		raw:  `[{"position": 1, "comment": "Add a te`,
		want: []Finding{{Position: 1, Comment: "Add a te"}},
	}, {
		name: "missing opening bracket",
		raw:  `{"position": 4, "comment": "Remove debug print"}]`,
		want: []Finding{{Position: 4, Comment: "Remove debug print"}},
	}, {
		name: "garbage yields no findings",
		raw:  "The changed lines look mostly fine to me.",
		want: nil,
	}, {
		name: "empty response yields no findings",
		raw:  "",
		want: nil,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseFindings(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFindings() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{{
		name: "no fences",
		in:   `{"comment_needed": false}`,
		want: `{"comment_needed": false}`,
	}, {
		name: "json fence",
		in:   "```json\n{\"a\": 1}\n```",
		want: `{"a": 1}`,
	}, {
		name: "bare fence",
		in:   "```\n{\"a\": 1}\n```",
		want: `{"a": 1}`,
	}, {
		name: "prose around fence",
		in:   "Here is my verdict:\n```json\n{\"a\": 1}\n```\nLet me know.",
		want: `{"a": 1}`,
	}, {
		name: "multiline body",
		in:   "```json\n[\n  {\"position\": 0}\n]\n```",
		want: "[\n  {\"position\": 0}\n]",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
