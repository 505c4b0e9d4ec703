/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"fmt"
	"strings"

	"github.com/contribcheck/contribcheck/diffmap"
)

const descriptionSystem = `You review pull request descriptions against a repository's contributing guidelines.
Judge ONLY whether the description violates the guidelines; do not review code.
If the description complies, respond with the single token NO_COMMENT_NEEDED.
Otherwise respond with one JSON object and nothing else:
{"comment_needed": true, "comment": "<actionable feedback for the author>", "reasoning": "<why this violates the guidelines>"}`

const fileSystem = `You review changed lines of a pull request against a repository's contributing guidelines.
Each changed line is shown as "<index>: <content>". Judge ONLY the lines shown.
If nothing violates the guidelines, respond with the single token NO_COMMENT_NEEDED.
Otherwise respond with one JSON array and nothing else, where position is the
index of the offending line exactly as shown:
[{"position": <index>, "comment": "<actionable feedback>"}]`

func descriptionPrompt(guidelines, description string) string {
	var sb strings.Builder
	sb.WriteString("Contributing guidelines:\n\n")
	sb.WriteString(guidelines)
	sb.WriteString("\n\nPull request description:\n\n")
	sb.WriteString(description)
	return sb.String()
}

func filePrompt(guidelines, filename string, records []diffmap.Record) string {
	var sb strings.Builder
	sb.WriteString("Contributing guidelines:\n\n")
	sb.WriteString(guidelines)
	fmt.Fprintf(&sb, "\n\nChanged lines in %s:\n\n", filename)
	for i, r := range records {
		fmt.Fprintf(&sb, "%d: %s\n", i, r.Text)
	}
	return sb.String()
}
