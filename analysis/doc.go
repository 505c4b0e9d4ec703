/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package analysis merges description-level and per-file judgments into a
// single violation ledger for a pull request.
package analysis
