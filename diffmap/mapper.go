/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package diffmap

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// Record locates one retained line of a patch in both coordinate systems.
type Record struct {
	// Text is the line content without its leading "+" marker.
	Text string
	// Position is the 1-based ordinal of the line within the entire patch
	// text. Hunk headers, context lines, and removals all count.
	Position int
	// NewLine is the 1-based line number in the post-change file.
	NewLine int
}

// hunkHeader matches "@@ -a,b +c,d @@" and captures c, the start line of
// the hunk in the new file. The ",b" and ",d" lengths are optional.
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// Records returns the sequence of retained ("+" and context) lines of a
// unified-diff patch, each carrying its diff position and new-file line
// number. Only added lines are emitted; context lines advance the new-file
// counter without being emitted, and removed lines advance neither counter.
//
// The sequence is restartable: ranging over it again re-scans the patch.
// An empty patch yields an empty sequence, and malformed hunk headers are
// tolerated by leaving the line counter untouched. When no hunk header
// precedes content the new-file counter starts at zero, so the first
// retained line is numbered 1.
func Records(patch string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if patch == "" {
			return
		}
		lines := strings.Split(patch, "\n")
		if n := len(lines); lines[n-1] == "" {
			lines = lines[:n-1]
		}

		position := 0
		newLine := 0
		for _, line := range lines {
			position++

			if m := hunkHeader.FindStringSubmatch(line); m != nil {
				if start, err := strconv.Atoi(m[1]); err == nil {
					newLine = start - 1
				}
				continue
			}

			switch {
			case strings.HasPrefix(line, "+++"):
				// File marker, not an addition.
			case strings.HasPrefix(line, "+"):
				newLine++
				if !yield(Record{Text: line[1:], Position: position, NewLine: newLine}) {
					return
				}
			case strings.HasPrefix(line, " "):
				newLine++
			}
		}
	}
}

// Parse materializes Records into a slice, preserving order.
func Parse(patch string) []Record {
	var records []Record
	for r := range Records(patch) {
		records = append(records, r)
	}
	return records
}
