/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package diffmap_test

import (
	"strings"
	"testing"

	"github.com/contribcheck/contribcheck/diffmap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleAddition(t *testing.T) {
	t.Parallel()
	patch := "@@ -1,2 +1,3 @@\n line1\n+line2\n line3"

	got := diffmap.Parse(patch)
	want := []diffmap.Record{{Text: "line2", Position: 3, NewLine: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		patch string
		want  []diffmap.Record
	}{{
		name:  "empty patch",
		patch: "",
		want:  nil,
	}, {
		name:  "removals advance neither counter",
		patch: "@@ -1,3 +1,2 @@\n keep\n-gone\n+new\n tail",
		want:  []diffmap.Record{{Text: "new", Position: 4, NewLine: 2}},
	}, {
		name:  "file markers are not additions",
		patch: "--- a/f.go\n+++ b/f.go\n@@ -1 +1,2 @@\n old\n+added",
		want:  []diffmap.Record{{Text: "added", Position: 5, NewLine: 2}},
	}, {
		name:  "second hunk resets the line counter",
		patch: "@@ -1,2 +1,2 @@\n a\n+b\n@@ -10,2 +10,3 @@\n x\n+y\n z",
		want: []diffmap.Record{
			{Text: "b", Position: 3, NewLine: 2},
			{Text: "y", Position: 6, NewLine: 11},
		},
	}, {
		name: "no hunk header counts from zero",
		// Undocumented producer quirk seen in renamed files: without a
		// header the first retained line is numbered 1.
		patch: " context\n+added",
		want:  []diffmap.Record{{Text: "added", Position: 2, NewLine: 2}},
	}, {
		name:  "malformed header is skipped, counter continues",
		patch: "@@ -1,2 +1,3 @@\n a\n+b\n@@ bogus @@\n+c",
		want: []diffmap.Record{
			{Text: "b", Position: 3, NewLine: 2},
			{Text: "c", Position: 5, NewLine: 3},
		},
	}, {
		name:  "trailing newline does not add a position",
		patch: "@@ -1 +1,2 @@\n a\n+b\n",
		want:  []diffmap.Record{{Text: "b", Position: 3, NewLine: 2}},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := diffmap.Parse(tt.patch)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecords_PositionsStrictlyIncreasing(t *testing.T) {
	t.Parallel()
	patch := "@@ -1,4 +1,6 @@\n a\n+b\n-c\n+d\n e\n+f\n@@ -20,1 +22,2 @@\n g\n+h"

	last := 0
	count := 0
	for r := range diffmap.Records(patch) {
		require.Greater(t, r.Position, last, "positions must be strictly increasing")
		last = r.Position
		count++
	}
	require.LessOrEqual(t, count, len(strings.Split(patch, "\n")))
	require.LessOrEqual(t, last, len(strings.Split(patch, "\n")))
}

func TestRecords_Restartable(t *testing.T) {
	t.Parallel()
	seq := diffmap.Records("@@ -1 +1,2 @@\n a\n+b")

	for range 2 {
		var got []diffmap.Record
		for r := range seq {
			got = append(got, r)
		}
		require.Len(t, got, 1)
		require.Equal(t, diffmap.Record{Text: "b", Position: 3, NewLine: 2}, got[0])
	}
}

func TestRecords_EarlyBreak(t *testing.T) {
	t.Parallel()
	seq := diffmap.Records("@@ -1 +1,3 @@\n a\n+b\n+c")

	for r := range seq {
		require.Equal(t, "b", r.Text)
		break
	}
}
