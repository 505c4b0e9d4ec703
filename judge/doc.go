/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package judge delegates the actual "is this a guideline violation?"
// question to a text-analysis model and defensively parses whatever comes
// back. Two backends are provided, Claude and Gemini; both return the same
// structured verdicts. Model output is treated as hostile input: truncated
// JSON is repaired where possible and unparsable text degrades to a safe
// "no comment needed" default instead of failing the analysis.
package judge
