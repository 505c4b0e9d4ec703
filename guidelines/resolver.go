/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package guidelines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// ErrNotFound is returned by ContentFetcher implementations when a path
// does not exist in the repository.
var ErrNotFound = errors.New("content not found")

// maxDepth bounds link expansion. The root document is depth 0; documents
// at depth < maxDepth-1 are scanned for further links, so expansion
// terminates even when documents link to each other in cycles.
const maxDepth = 3

// DefaultCandidatePaths is the ordered list of locations tried for the
// root guidelines document. First hit wins.
var DefaultCandidatePaths = []string{
	"CONTRIBUTING.md",
	"contributing.md",
	".github/CONTRIBUTING.md",
	"docs/CONTRIBUTING.md",
}

// ContentFetcher is the source-control surface the resolver depends on.
type ContentFetcher interface {
	// FileContent returns the decoded text of a file, or ErrNotFound.
	FileContent(ctx context.Context, owner, repo, path string) (string, error)
	// RawURL fetches the text behind an absolute raw-content URL.
	RawURL(ctx context.Context, url string) (string, error)
	// DefaultBranch returns the repository's default branch name.
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)
}

// Document is the aggregated contributing-rules text for a repository.
// Immutable once constructed; a fresh Document supersedes it when the
// cache entry expires.
type Document struct {
	Content     string
	SourcePaths []string
	FetchedAt   time.Time
}

// Resolver locates and aggregates guideline documents.
type Resolver struct {
	fetcher    ContentFetcher
	cache      *Cache
	candidates []string
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCandidatePaths overrides the root document candidate list.
func WithCandidatePaths(paths ...string) Option {
	return func(r *Resolver) {
		r.candidates = paths
	}
}

// New creates a Resolver backed by the given fetcher and cache.
func New(fetcher ContentFetcher, cache *Cache, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:    fetcher,
		cache:      cache,
		candidates: DefaultCandidatePaths,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the repository's aggregated guidelines document, or
// (nil, nil) when no candidate path exists. Absence of the root document
// is the only not-found condition; failures fetching linked documents are
// logged and that branch contributes nothing.
func (r *Resolver) Resolve(ctx context.Context, owner, repo string) (*Document, error) {
	key := cacheKey{Owner: owner, Repo: repo, Depth: 0}
	if doc, ok := r.cache.get(key); ok {
		return doc, nil
	}

	rootPath, rootContent, found := r.rootDocument(ctx, owner, repo)
	if !found {
		return nil, nil
	}

	doc := r.expand(ctx, owner, repo, rootPath, rootContent)
	r.cache.put(key, doc)
	return doc, nil
}

// rootDocument tries each candidate path in order and returns the first
// hit. Transient fetch failures on a candidate are treated as misses.
func (r *Resolver) rootDocument(ctx context.Context, owner, repo string) (path, content string, found bool) {
	log := clog.FromContext(ctx)
	for _, candidate := range r.candidates {
		text, err := r.fetcher.FileContent(ctx, owner, repo, candidate)
		switch {
		case err == nil:
			return candidate, text, true
		case errors.Is(err, ErrNotFound):
		default:
			log.With("path", candidate).With("error", err).Warn("Guideline candidate lookup failed")
		}
	}
	return "", "", false
}

// workItem is one queued linked document awaiting fetch.
type workItem struct {
	url   string
	label string
	depth int
}

// expand aggregates the root document with every reachable linked document,
// breadth first. The visited set is shared across branches and an item is
// marked visited when enqueued, before its fetch, so mutually linked
// documents are fetched at most once per resolution.
func (r *Resolver) expand(ctx context.Context, owner, repo, rootPath, rootContent string) *Document {
	log := clog.FromContext(ctx)

	var sb strings.Builder
	sb.WriteString(rootContent)
	sources := []string{rootPath}
	visited := make(map[string]bool)

	branch := ""
	defaultBranch := func() string {
		if branch != "" {
			return branch
		}
		b, err := r.fetcher.DefaultBranch(ctx, owner, repo)
		if err != nil {
			log.With("error", err).Warn("Default branch lookup failed, assuming main")
			b = "main"
		}
		branch = b
		return branch
	}

	enqueue := func(queue []workItem, content string, depth int) []workItem {
		if depth >= maxDepth-1 {
			return queue
		}
		for _, l := range extractLinks(content) {
			target := strings.TrimSpace(l.Target)
			var resolved string
			switch {
			case strings.Contains(target, "://"):
				// Absolute targets never need the default branch.
				resolved = resolveTarget(owner, repo, "", target)
			case strings.HasPrefix(target, "#"):
				// In-page anchor.
			default:
				resolved = resolveTarget(owner, repo, defaultBranch(), target)
			}
			if resolved == "" || visited[resolved] {
				continue
			}
			visited[resolved] = true
			queue = append(queue, workItem{url: resolved, label: l.Label, depth: depth + 1})
		}
		return queue
	}

	queue := enqueue(nil, rootContent, 0)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		text, err := r.fetcher.RawURL(ctx, item.url)
		if err != nil {
			log.With("url", item.url).With("error", err).Warn("Linked document fetch failed, skipping")
			continue
		}

		fmt.Fprintf(&sb, "\n\n---\n\nLinked document %q (%s):\n\n%s", item.label, item.url, text)
		sources = append(sources, item.url)

		queue = enqueue(queue, text, item.depth)
	}

	return &Document{
		Content:     sb.String(),
		SourcePaths: sources,
		FetchedAt:   r.now(),
	}
}
