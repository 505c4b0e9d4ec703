/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package guidelines resolves a repository's contributing guidelines into a
// single aggregated document. Resolution tries a fixed list of candidate
// paths, then expands markdown links from the root document up to a bounded
// depth with a shared visited set, so link cycles across documents
// terminate. Aggregates are cached per repository with a time-to-live.
package guidelines
