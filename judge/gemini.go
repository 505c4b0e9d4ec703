/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"github.com/contribcheck/contribcheck/diffmap"
)

// Gemini judges pull requests with the Google GenAI API.
type Gemini struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	retryConfig     RetryConfig
	metrics         *judgeMetrics
}

// GeminiOption configures a Gemini judge.
type GeminiOption func(*Gemini) error

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(g *Gemini) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		g.model = model
		return nil
	}
}

// WithGeminiMaxOutputTokens overrides the default completion budget.
func WithGeminiMaxOutputTokens(maxOutputTokens int32) GeminiOption {
	return func(g *Gemini) error {
		if maxOutputTokens <= 0 {
			return fmt.Errorf("maxOutputTokens must be positive, got %d", maxOutputTokens)
		}
		g.maxOutputTokens = maxOutputTokens
		return nil
	}
}

// WithGeminiRetryConfig overrides the default backoff behavior.
func WithGeminiRetryConfig(cfg RetryConfig) GeminiOption {
	return func(g *Gemini) error {
		g.retryConfig = cfg
		return nil
	}
}

// NewGemini creates a Gemini judge with the given client.
func NewGemini(client *genai.Client, opts ...GeminiOption) (*Gemini, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	g := &Gemini{
		client:          client,
		model:           "gemini-2.5-flash",
		temperature:     0.1, // Low temperature for consistency
		maxOutputTokens: 4096,
		retryConfig:     DefaultRetryConfig(),
		metrics:         newJudgeMetrics(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return g, nil
}

// JudgeDescription implements Interface.
func (g *Gemini) JudgeDescription(ctx context.Context, guidelines, description string) (Verdict, error) {
	text, err := g.complete(ctx, "judge_description", descriptionSystem, descriptionPrompt(guidelines, description))
	if err != nil {
		return Verdict{}, err
	}
	return ParseVerdict(text), nil
}

// JudgeFile implements Interface.
func (g *Gemini) JudgeFile(ctx context.Context, guidelines, filename string, records []diffmap.Record) ([]Finding, error) {
	if len(records) == 0 {
		return nil, nil
	}
	text, err := g.complete(ctx, "judge_file", fileSystem, filePrompt(guidelines, filename, records))
	if err != nil {
		return nil, err
	}
	return ParseFindings(text), nil
}

func (g *Gemini) complete(ctx context.Context, kind, system, prompt string) (string, error) {
	log := clog.FromContext(ctx).With("model", g.model).With("kind", kind)

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(g.temperature),
		MaxOutputTokens: g.maxOutputTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: system,
			}},
		},
	}
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{{
			Text: prompt,
		}},
	}}

	response, err := retryWithBackoff(ctx, g.retryConfig, kind, isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, contents, config)
	})
	if err != nil {
		return "", fmt.Errorf("requesting judgment: %w", err)
	}

	if response.UsageMetadata != nil {
		g.metrics.record(ctx, g.model, kind,
			int64(response.UsageMetadata.PromptTokenCount),
			int64(response.UsageMetadata.CandidatesTokenCount))
	}

	var text string
	if len(response.Candidates) > 0 && response.Candidates[0].Content != nil {
		for _, part := range response.Candidates[0].Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return "", errors.New("no text content in response")
	}

	log.With("response_length", len(text)).Info("Completed judgment call")
	return text, nil
}

// isRetryableGeminiError checks if an error is a retryable GenAI error.
// Returns true for rate limit, quota exhaustion, and transient server
// errors.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "server error")
}

func ptr[T any](v T) *T {
	return &v
}
