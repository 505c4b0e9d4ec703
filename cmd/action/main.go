/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the GitHub Actions entrypoint. It analyzes one
// pull request against the repository's contributing guidelines, posts a
// check run, emits action outputs, and exits non-zero when violations are
// found and FAIL_ON_VIOLATIONS is set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"google.golang.org/genai"

	"github.com/contribcheck/contribcheck/analysis"
	"github.com/contribcheck/contribcheck/ghclient"
	"github.com/contribcheck/contribcheck/guidelines"
	"github.com/contribcheck/contribcheck/judge"
	"github.com/contribcheck/contribcheck/pipeline"
)

type config struct {
	GitHubToken string `env:"GITHUB_TOKEN,required"`
	Repository  string `env:"GITHUB_REPOSITORY,required"` // owner/repo
	PRNumber    int    `env:"PR_NUMBER,required"`

	CheckName        string        `env:"CHECK_NAME,default=contributing-guidelines"`
	FailOnViolations bool          `env:"FAIL_ON_VIOLATIONS,default=true"`
	PostReview       bool          `env:"POST_REVIEW,default=false"`
	CacheTTL         time.Duration `env:"GUIDELINES_CACHE_TTL,default=30m"`

	// OutputPath is set by the Actions runner.
	OutputPath string `env:"GITHUB_OUTPUT"`

	// Judge backend selection: Anthropic wins when both keys are set.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	ClaudeModel     string `env:"CLAUDE_MODEL,default=claude-sonnet-4-5"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL,default=gemini-2.5-flash"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	owner, repo, ok := strings.Cut(cfg.Repository, "/")
	if !ok {
		clog.FatalContextf(ctx, "GITHUB_REPOSITORY must be owner/repo, got %q", cfg.Repository)
	}

	gh, err := ghclient.NewWithToken(ctx, cfg.GitHubToken)
	if err != nil {
		clog.FatalContextf(ctx, "creating GitHub client: %v", err)
	}

	j, err := newJudge(ctx, &cfg)
	if err != nil {
		clog.FatalContextf(ctx, "creating judge: %v", err)
	}

	resolver := guidelines.New(gh, guidelines.NewCache(cfg.CacheTTL))

	opts := []pipeline.Option{pipeline.WithCheckName(cfg.CheckName)}
	if cfg.PostReview {
		opts = append(opts, pipeline.WithPostReview())
	}
	analyzer := pipeline.New(gh, resolver, j, opts...)

	pr, err := gh.Overview(ctx, owner, repo, cfg.PRNumber)
	if err != nil {
		clog.FatalContextf(ctx, "fetching pull request: %v", err)
	}

	result, err := analyzer.Analyze(ctx, pipeline.Request{
		Owner:   owner,
		Repo:    repo,
		Number:  pr.Number,
		Title:   pr.Title,
		Body:    pr.Body,
		HeadSHA: pr.HeadSHA,
	})
	if err != nil {
		clog.FatalContextf(ctx, "analyzing pull request: %v", err)
	}

	if err := writeOutputs(cfg.OutputPath, result); err != nil {
		clog.FatalContextf(ctx, "writing action outputs: %v", err)
	}

	clog.InfoContextf(ctx, "Analysis complete: %s", result.Summary)
	if result.Found() && cfg.FailOnViolations {
		os.Exit(1)
	}
}

// newJudge selects the judgment backend from the configured API keys.
func newJudge(ctx context.Context, cfg *config) (judge.Interface, error) {
	switch {
	case cfg.AnthropicAPIKey != "":
		client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
		return judge.NewClaude(client, judge.WithClaudeModel(cfg.ClaudeModel))
	case cfg.GeminiAPIKey != "":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		return judge.NewGemini(client, judge.WithGeminiModel(cfg.GeminiModel))
	default:
		return nil, fmt.Errorf("one of ANTHROPIC_API_KEY or GEMINI_API_KEY is required")
	}
}

// writeOutputs appends the action outputs to the GITHUB_OUTPUT file. The
// summary uses the heredoc form because it spans lines.
func writeOutputs(path string, result *analysis.Result) error {
	if path == "" {
		// Running outside the Actions runner.
		fmt.Printf("violations-found=%t\nviolation-count=%d\n", result.Found(), result.Count())
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	fmt.Fprintf(&sb, "violations-found=%t\n", result.Found())
	fmt.Fprintf(&sb, "violation-count=%d\n", result.Count())
	fmt.Fprintf(&sb, "analysis-summary<<CONTRIBCHECK_EOF\n%s\nCONTRIBCHECK_EOF\n", result.Summary)

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("writing outputs: %w", err)
	}
	return nil
}
