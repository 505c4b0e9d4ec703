/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NoCommentSentinel is the leading token a model may emit instead of JSON
// to signal that no comment is needed.
const NoCommentSentinel = "NO_COMMENT_NEEDED"

// repairedReasoning is recorded on verdicts recovered from truncated
// responses, typically caused by the model hitting its output token limit
// mid-object.
const repairedReasoning = "Repaired from malformed JSON response"

// ParseVerdict interprets a raw model response as a description verdict.
// It never fails. The fallback ladder is: sentinel token, strict JSON,
// JSON with synthesized closing delimiters, and finally a safe "no comment
// needed" default. Any verdict recovered by a non-strict strategy carries
// repairedReasoning.
func ParseVerdict(raw string) Verdict {
	text := strings.TrimSpace(stripFences(raw))

	if strings.HasPrefix(text, NoCommentSentinel) {
		return Verdict{CommentNeeded: false, Comment: ""}
	}

	if text == "" {
		return Verdict{
			CommentNeeded: false,
			Comment:       "",
			Reasoning:     "Unparsable judgment response, defaulting to no comment",
		}
	}

	for i, attempt := range verdictCandidates(text) {
		var v Verdict
		if err := json.Unmarshal([]byte(attempt), &v); err != nil {
			continue
		}
		if i > 0 {
			v.Reasoning = repairedReasoning
		}
		return v
	}

	return Verdict{
		CommentNeeded: false,
		Comment:       "",
		Reasoning:     "Unparsable judgment response, defaulting to no comment",
	}
}

// ParseFindings interprets a raw model response as code-level findings.
// It never fails; unparsable text yields no findings.
func ParseFindings(raw string) []Finding {
	text := strings.TrimSpace(stripFences(raw))

	if text == "" || strings.HasPrefix(text, NoCommentSentinel) {
		return nil
	}

	for _, attempt := range findingCandidates(text) {
		var findings []Finding
		if err := json.Unmarshal([]byte(attempt), &findings); err != nil {
			continue
		}
		return findings
	}
	return nil
}

// verdictCandidates orders the repair attempts for a verdict payload:
// the text as-is, then with synthesized closing delimiters, then wrapped
// in braces the same way. The unterminated-string closers recover the
// common truncation where generation stopped inside the comment field.
func verdictCandidates(text string) []string {
	attempts := []string{text, text + "\"}", text + "}"}
	if !strings.HasPrefix(text, "{") {
		wrapped := "{" + text
		attempts = append(attempts, wrapped, wrapped+"}", wrapped+"\"}")
	}
	return attempts
}

// findingCandidates orders the repair attempts for a findings array.
func findingCandidates(text string) []string {
	attempts := []string{text, text + "]", text + "}]", text + "\"}]"}
	if !strings.HasPrefix(text, "[") {
		wrapped := "[" + text
		attempts = append(attempts, wrapped, wrapped+"]", wrapped+"}]", wrapped+"\"}]")
	}
	return attempts
}

// stripFences removes a surrounding markdown code block, with or without a
// json language tag, from a model response.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	var buf bytes.Buffer
	inBlock := false
	found := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBlock && (trimmed == "```json" || trimmed == "```") {
			if found {
				break
			}
			inBlock = true
			found = true
			continue
		}
		if inBlock && trimmed == "```" {
			break
		}
		if inBlock {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}

	if found {
		return strings.TrimSpace(buf.String())
	}
	return strings.TrimSpace(s)
}
