/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"github.com/contribcheck/contribcheck/diffmap"
)

// Claude judges pull requests with the Anthropic Messages API.
type Claude struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	retryConfig RetryConfig
	metrics     *judgeMetrics
}

// ClaudeOption configures a Claude judge.
type ClaudeOption func(*Claude) error

// WithClaudeModel overrides the default model.
func WithClaudeModel(model string) ClaudeOption {
	return func(c *Claude) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithClaudeMaxTokens overrides the default completion budget.
func WithClaudeMaxTokens(maxTokens int64) ClaudeOption {
	return func(c *Claude) error {
		if maxTokens <= 0 {
			return fmt.Errorf("maxTokens must be positive, got %d", maxTokens)
		}
		c.maxTokens = maxTokens
		return nil
	}
}

// WithClaudeRetryConfig overrides the default backoff behavior.
func WithClaudeRetryConfig(cfg RetryConfig) ClaudeOption {
	return func(c *Claude) error {
		c.retryConfig = cfg
		return nil
	}
}

// NewClaude creates a Claude judge with the given client.
func NewClaude(client anthropic.Client, opts ...ClaudeOption) (*Claude, error) {
	c := &Claude{
		client:      client,
		model:       "claude-sonnet-4-5",
		maxTokens:   4096,
		temperature: 0.1, // Low temperature for consistency
		retryConfig: DefaultRetryConfig(),
		metrics:     newJudgeMetrics(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return c, nil
}

// JudgeDescription implements Interface.
func (c *Claude) JudgeDescription(ctx context.Context, guidelines, description string) (Verdict, error) {
	text, err := c.complete(ctx, "judge_description", descriptionSystem, descriptionPrompt(guidelines, description))
	if err != nil {
		return Verdict{}, err
	}
	return ParseVerdict(text), nil
}

// JudgeFile implements Interface.
func (c *Claude) JudgeFile(ctx context.Context, guidelines, filename string, records []diffmap.Record) ([]Finding, error) {
	if len(records) == 0 {
		return nil, nil
	}
	text, err := c.complete(ctx, "judge_file", fileSystem, filePrompt(guidelines, filename, records))
	if err != nil {
		return nil, err
	}
	return ParseFindings(text), nil
}

// complete sends one prompt and returns the concatenated text content of
// the response.
func (c *Claude) complete(ctx context.Context, kind, system, prompt string) (string, error) {
	log := clog.FromContext(ctx).With("model", c.model).With("kind", kind)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt),
			},
		}},
	}
	params.Temperature = anthropic.Float(c.temperature)

	message, err := retryWithBackoff(ctx, c.retryConfig, kind, isRetryableClaudeError, func() (*anthropic.Message, error) {
		return c.client.Messages.New(ctx, params)
	})
	if err != nil {
		return "", fmt.Errorf("requesting judgment: %w", err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		c.metrics.record(ctx, c.model, kind, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	var text string
	for _, content := range message.Content {
		if content.Type == "text" {
			text += content.Text
		}
	}
	if text == "" {
		return "", errors.New("no text content in response")
	}

	log.With("response_length", len(text)).Info("Completed judgment call")
	return text, nil
}

// isRetryableClaudeError checks if an error is a retryable Anthropic API
// error. Returns true for rate limit, overloaded, and transient server
// errors.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
