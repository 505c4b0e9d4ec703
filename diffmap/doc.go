/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package diffmap translates unified-diff patches into the coordinate
// systems GitHub's APIs address lines by: the diff position (the 1-based
// ordinal of a line within the whole patch text, used by review comments)
// and the new-file line number (used by check-run annotations).
package diffmap
