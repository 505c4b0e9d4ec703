/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the webhook service. It validates GitHub
// webhook deliveries, deduplicates redundant analyses of the same PR
// state, and runs the analysis pipeline in the background.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/sethvargo/go-envconfig"
	"google.golang.org/genai"

	"github.com/contribcheck/contribcheck/ghclient"
	"github.com/contribcheck/contribcheck/guidelines"
	"github.com/contribcheck/contribcheck/judge"
	"github.com/contribcheck/contribcheck/pipeline"
)

type config struct {
	Port          int    `env:"PORT,default=8080"`
	WebhookSecret string `env:"WEBHOOK_SECRET,required"`

	CheckName  string        `env:"CHECK_NAME,default=contributing-guidelines"`
	PostReview bool          `env:"POST_REVIEW,default=false"`
	CacheTTL   time.Duration `env:"GUIDELINES_CACHE_TTL,default=30m"`

	// Token auth for single-repo deployments.
	GitHubToken string `env:"GITHUB_TOKEN"`

	// App auth for multi-repo deployments; the installation ID comes
	// from each event.
	AppID             int64  `env:"GITHUB_APP_ID"`
	AppPrivateKeyPath string `env:"GITHUB_APP_PRIVATE_KEY_PATH"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	ClaudeModel     string `env:"CLAUDE_MODEL,default=claude-sonnet-4-5"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL,default=gemini-2.5-flash"`
}

// service holds the long-lived pieces shared across deliveries.
type service struct {
	cfg   *config
	judge judge.Interface

	// cache is shared across installations so repeated PRs against the
	// same repository reuse resolved guidelines.
	cache *guidelines.Cache

	// tokenClient is set in token-auth mode; app-auth mode builds a
	// client per installation.
	tokenClient *ghclient.Client

	mu   sync.Mutex
	seen map[string]string // "owner/repo#number" -> generation hash
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	if cfg.GitHubToken == "" && (cfg.AppID == 0 || cfg.AppPrivateKeyPath == "") {
		clog.FatalContextf(ctx, "either GITHUB_TOKEN or GITHUB_APP_ID with GITHUB_APP_PRIVATE_KEY_PATH is required")
	}

	j, err := newJudge(ctx, &cfg)
	if err != nil {
		clog.FatalContextf(ctx, "creating judge: %v", err)
	}

	svc := &service{
		cfg:   &cfg,
		judge: j,
		cache: guidelines.NewCache(cfg.CacheTTL),
		seen:  make(map[string]string),
	}
	if cfg.GitHubToken != "" {
		svc.tokenClient, err = ghclient.NewWithToken(ctx, cfg.GitHubToken)
		if err != nil {
			clog.FatalContextf(ctx, "creating GitHub client: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", svc.handleWebhook)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			clog.FromContext(ctx).With("error", err).Warn("Server shutdown failed")
		}
	}()

	clog.InfoContextf(ctx, "Starting webhook service on port %d", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}

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

func (s *service) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := clog.FromContext(ctx)

	payload, err := github.ValidatePayload(r, []byte(s.cfg.WebhookSecret))
	if err != nil {
		log.With("error", err).Warn("Invalid webhook signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		log.With("error", err).Warn("Unparsable webhook payload")
		http.Error(w, "unparsable payload", http.StatusBadRequest)
		return
	}

	pr, ok := event.(*github.PullRequestEvent)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	req := pipeline.Request{
		Owner:   pr.GetRepo().GetOwner().GetLogin(),
		Repo:    pr.GetRepo().GetName(),
		Number:  pr.GetPullRequest().GetNumber(),
		Title:   pr.GetPullRequest().GetTitle(),
		Body:    pr.GetPullRequest().GetBody(),
		HeadSHA: pr.GetPullRequest().GetHead().GetSHA(),
	}

	switch pr.GetAction() {
	case "opened", "synchronize", "edited", "reopened":
	case "closed":
		// The PR will not be analyzed again; drop its idempotency entry.
		s.release(req)
		w.WriteHeader(http.StatusOK)
		return
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	gh, err := s.clientFor(pr.GetInstallation().GetID())
	if err != nil {
		log.With("error", err).Error("Failed to create GitHub client")
		http.Error(w, "client setup failed", http.StatusInternalServerError)
		return
	}

	// Claimed only once the client exists, so a setup failure leaves the
	// state unclaimed and a redelivery can retry it.
	if !s.claim(req) {
		log.With("pr", req.Number).Info("PR state already analyzed, skipping")
		w.WriteHeader(http.StatusOK)
		return
	}

	// The delivery is acknowledged before analysis; GitHub retries
	// deliveries that take too long.
	w.WriteHeader(http.StatusAccepted)

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Minute)
		defer cancel()

		resolver := guidelines.New(gh, s.cache)
		opts := []pipeline.Option{pipeline.WithCheckName(s.cfg.CheckName)}
		if s.cfg.PostReview {
			opts = append(opts, pipeline.WithPostReview())
		}

		if _, err := pipeline.New(gh, resolver, s.judge, opts...).Analyze(ctx, req); err != nil {
			clog.FromContext(ctx).With("error", err).
				With("pr", req.Number).
				Error("Analysis failed")
			s.release(req)
		}
	}()
}

// claim records the PR state as in flight. It returns false when this
// exact state (head SHA, title, body) was already analyzed.
func (s *service) claim(req pipeline.Request) bool {
	key := fmt.Sprintf("%s/%s#%d", req.Owner, req.Repo, req.Number)
	gen := computeGeneration(req.HeadSHA, req.Title, req.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] == gen {
		return false
	}
	s.seen[key] = gen
	return true
}

// release forgets a claimed PR state so a redelivery can retry it.
func (s *service) release(req pipeline.Request) {
	key := fmt.Sprintf("%s/%s#%d", req.Owner, req.Repo, req.Number)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
}

func (s *service) clientFor(installationID int64) (*ghclient.Client, error) {
	if s.tokenClient != nil {
		return s.tokenClient, nil
	}
	if installationID == 0 {
		return nil, errors.New("event carries no installation ID")
	}
	return ghclient.NewAppInstallation(s.cfg.AppID, installationID, s.cfg.AppPrivateKeyPath)
}

// computeGeneration hashes the analyzed PR state. Idempotency keys on the
// full state, not just the commit, so title and body edits re-trigger
// analysis.
func computeGeneration(sha, title, body string) string {
	h := sha256.New()
	h.Write([]byte(sha))
	h.Write([]byte(title))
	h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))
}
