/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/sync/errgroup"

	"github.com/contribcheck/contribcheck/analysis"
	"github.com/contribcheck/contribcheck/checkrun"
	"github.com/contribcheck/contribcheck/diffmap"
	"github.com/contribcheck/contribcheck/ghclient"
	"github.com/contribcheck/contribcheck/guidelines"
	"github.com/contribcheck/contribcheck/judge"
)

// DefaultCheckName is the check-run name used when none is configured.
const DefaultCheckName = "contributing-guidelines"

// GitHub is the source-control surface the analyzer depends on.
type GitHub interface {
	guidelines.ContentFetcher

	ChangedFiles(ctx context.Context, owner, repo string, number int) ([]ghclient.ChangedFile, error)
	RawDiff(ctx context.Context, owner, repo string, number int) (string, error)
	CreateCheckRun(ctx context.Context, owner, repo, name, headSHA string, report *checkrun.Report) error
	PostReview(ctx context.Context, owner, repo string, number int, comments []*github.DraftReviewComment) error
}

// Request identifies the pull request to analyze.
type Request struct {
	Owner   string
	Repo    string
	Number  int
	Title   string
	Body    string
	HeadSHA string
}

// Analyzer runs guideline analysis for pull requests.
type Analyzer struct {
	gh          GitHub
	resolver    *guidelines.Resolver
	judge       judge.Interface
	checkName   string
	postReview  bool
	maxParallel int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCheckName overrides the check-run name.
func WithCheckName(name string) Option {
	return func(a *Analyzer) {
		a.checkName = name
	}
}

// WithPostReview also posts findings as an inline review, in addition to
// the check run.
func WithPostReview() Option {
	return func(a *Analyzer) {
		a.postReview = true
	}
}

// WithMaxParallel bounds concurrent per-file judgment calls.
func WithMaxParallel(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxParallel = n
		}
	}
}

// New creates an Analyzer.
func New(gh GitHub, resolver *guidelines.Resolver, j judge.Interface, opts ...Option) *Analyzer {
	a := &Analyzer{
		gh:          gh,
		resolver:    resolver,
		judge:       j,
		checkName:   DefaultCheckName,
		maxParallel: 4,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline for one pull request and posts the
// check run. Judgment failures degrade to "no violation" for the piece
// that failed; only a failure to post the check run is returned as an
// error.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*analysis.Result, error) {
	log := clog.FromContext(ctx).
		With("owner", req.Owner).
		With("repo", req.Repo).
		With("pr", req.Number)
	ctx = clog.WithLogger(ctx, log)

	doc, err := a.resolver.Resolve(ctx, req.Owner, req.Repo)
	if err != nil {
		return nil, fmt.Errorf("resolving guidelines: %w", err)
	}
	if doc == nil {
		log.Info("No contributing guidelines found, skipping analysis")
		result := analysis.SkippedResult()
		if err := a.gh.CreateCheckRun(ctx, req.Owner, req.Repo, a.checkName, req.HeadSHA, checkrun.Build(result)); err != nil {
			return nil, fmt.Errorf("posting check run: %w", err)
		}
		return result, nil
	}

	changed, err := a.gh.ChangedFiles(ctx, req.Owner, req.Repo, req.Number)
	if err != nil {
		log.With("error", err).Warn("Failed to list changed files, analyzing description only")
		changed = nil
	}

	verdict := a.judgeDescription(ctx, doc.Content, req)
	files := a.judgeFiles(ctx, doc.Content, changed)

	result := analysis.Aggregate(ctx, verdict, files)

	reportOpts := a.reportOptions(ctx, req)
	report := checkrun.Build(result, reportOpts...)
	if err := a.gh.CreateCheckRun(ctx, req.Owner, req.Repo, a.checkName, req.HeadSHA, report); err != nil {
		return nil, fmt.Errorf("posting check run: %w", err)
	}

	if a.postReview {
		if comments := checkrun.ReviewComments(files); len(comments) > 0 {
			if err := a.gh.PostReview(ctx, req.Owner, req.Repo, req.Number, comments); err != nil {
				log.With("error", err).Warn("Failed to post review comments")
			}
		}
	}

	log.With("violations", result.Count()).Info("Analysis complete")
	return result, nil
}

// judgeDescription evaluates the PR body. An empty body short-circuits
// without a judgment call; a judgment failure degrades to no comment.
func (a *Analyzer) judgeDescription(ctx context.Context, guidelineText string, req Request) judge.Verdict {
	if req.Body == "" {
		return judge.Verdict{
			CommentNeeded: true,
			Comment:       "This pull request is missing a description. Please explain what the change does and why.",
			Reasoning:     "Empty PR description",
		}
	}
	verdict, err := a.judge.JudgeDescription(ctx, guidelineText, req.Body)
	if err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Description judgment failed, assuming no comment needed")
		return judge.Verdict{}
	}
	return verdict
}

// judgeFiles fans out per-file judgment calls. Removed files and files
// without a patch are skipped; a judgment failure leaves that file with
// no findings.
func (a *Analyzer) judgeFiles(ctx context.Context, guidelineText string, changed []ghclient.ChangedFile) []analysis.FileJudgment {
	log := clog.FromContext(ctx)

	files := make([]analysis.FileJudgment, 0, len(changed))
	for _, cf := range changed {
		if cf.Status == "removed" || cf.Patch == "" {
			continue
		}
		files = append(files, analysis.FileJudgment{
			Filename: cf.Filename,
			Records:  diffmap.Parse(cf.Patch),
		})
	}

	var eg errgroup.Group
	eg.SetLimit(a.maxParallel)
	for i := range files {
		eg.Go(func() error {
			file := &files[i]
			if len(file.Records) == 0 {
				return nil
			}
			findings, err := a.judge.JudgeFile(ctx, guidelineText, file.Filename, file.Records)
			if err != nil {
				log.With("file", file.Filename).With("error", err).Warn("File judgment failed, recording no findings")
				return nil
			}
			file.Findings = findings
			return nil
		})
	}
	// Workers never return errors, they degrade in place.
	_ = eg.Wait()

	return files
}

// reportOptions fetches whole-PR diff statistics for the report header.
// This is best effort.
func (a *Analyzer) reportOptions(ctx context.Context, req Request) []checkrun.Option {
	log := clog.FromContext(ctx)

	diff, err := a.gh.RawDiff(ctx, req.Owner, req.Repo, req.Number)
	if err != nil {
		log.With("error", err).Warn("Failed to fetch raw diff, omitting diff statistics")
		return nil
	}
	if diff == "" {
		return nil
	}
	stat, err := diffmap.Summarize(diff)
	if err != nil {
		log.With("error", err).Warn("Failed to summarize diff, omitting diff statistics")
		return nil
	}
	return []checkrun.Option{checkrun.WithDiffSummary(stat)}
}
