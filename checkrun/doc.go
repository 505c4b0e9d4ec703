/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package checkrun renders an analysis result into the GitHub check-run
// format: a conclusion, a markdown summary grouped by file, and a bounded
// set of inline annotations.
package checkrun
