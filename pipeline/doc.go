/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline orchestrates one pull request analysis end to end:
// resolve guidelines, judge the description and each changed file, merge
// the judgments into a ledger, and post the check run.
package pipeline
