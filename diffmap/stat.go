/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package diffmap

import (
	"fmt"

	"github.com/waigani/diffparser"
)

// Summary describes the overall shape of a pull request diff.
type Summary struct {
	Files     int
	Additions int
	Deletions int
}

// String renders the summary the way diffstat footers read.
func (s Summary) String() string {
	return fmt.Sprintf("%d file(s) changed, +%d/-%d", s.Files, s.Additions, s.Deletions)
}

// Summarize counts files and line changes in a whole-PR unified diff, as
// returned by the pull request diff endpoint. Unlike the per-file patches
// handled by Records, the input here carries full "diff --git" file
// headers.
func Summarize(diff string) (Summary, error) {
	parsed, err := diffparser.Parse(diff)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing diff: %w", err)
	}

	var s Summary
	for _, file := range parsed.Files {
		s.Files++
		for _, hunk := range file.Hunks {
			for _, line := range hunk.WholeRange.Lines {
				switch line.Mode {
				case diffparser.ADDED:
					s.Additions++
				case diffparser.REMOVED:
					s.Deletions++
				}
			}
		}
	}
	return s, nil
}
