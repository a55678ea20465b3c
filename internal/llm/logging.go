package llm

import (
	"context"
	"log/slog"
	"time"
)

type loggingProvider struct {
	next   Provider
	logger *slog.Logger
}

// WithLogging logs latency, token usage and failures of every request.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	return &loggingProvider{next: p, logger: logger}
}

func (l *loggingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.next.Complete(ctx, req)
	elapsed := time.Since(start)

	schema := ""
	if req.Schema != nil {
		schema = req.Schema.Name
	}

	if err != nil {
		l.logger.Warn("LLM request failed",
			"model", l.next.Model(),
			"schema", schema,
			"duration_ms", elapsed.Milliseconds(),
			"error", err)
		return nil, err
	}

	l.logger.Debug("LLM request completed",
		"model", resp.Model,
		"schema", schema,
		"duration_ms", elapsed.Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)
	return resp, nil
}

func (l *loggingProvider) Model() string { return l.next.Model() }
