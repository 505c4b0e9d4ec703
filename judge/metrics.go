/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// judgeMetrics records token usage and judgment counts for a backend.
// Metric creation failures degrade to no-op counters rather than failing
// the backend.
type judgeMetrics struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	judgments        metric.Int64Counter
}

func newJudgeMetrics() *judgeMetrics {
	meter := otel.Meter("contribcheck.judge", metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("judge.token.prompt",
		metric.WithDescription("The number of prompt tokens used by judgment calls"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("judge.token.completion",
		metric.WithDescription("The number of completion tokens used by judgment calls"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err)
		completionTokens = noop.Int64Counter{}
	}

	judgments, err := meter.Int64Counter("judge.calls",
		metric.WithDescription("The number of judgment calls made"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create judgment counter, metrics will be disabled", "error", err)
		judgments = noop.Int64Counter{}
	}

	return &judgeMetrics{
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		judgments:        judgments,
	}
}

// record captures one completed judgment call.
func (m *judgeMetrics) record(ctx context.Context, model, kind string, promptTokens, completionTokens int64) {
	attrs := metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("kind", kind),
	)
	m.promptTokens.Add(ctx, promptTokens, attrs)
	m.completionTokens.Add(ctx, completionTokens, attrs)
	m.judgments.Add(ctx, 1, attrs)
}
