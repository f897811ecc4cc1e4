package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider logs every call with its latency and token usage.
type LoggingProvider struct {
	inner Provider
	log   *zap.SugaredLogger
}

func WithLogging(p Provider, log *zap.SugaredLogger) Provider {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []any{"model", l.inner.ModelID(), "latency", time.Since(start)}
	if req.Schema != nil {
		fields = append(fields, "schema", req.Schema.Name)
	}
	if err != nil {
		l.log.Warnw("llm request failed", append(fields, "error", err)...)
		return nil, err
	}
	l.log.Debugw("llm request ok", append(fields,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
