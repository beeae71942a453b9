package llm

import (
	"context"
	"time"

	"wspace-be/internal/pkg/logger"
)

type loggingProvider struct {
	next LLMProvider
	log  logger.ILogger
	name string
}

// WithLogging records every prompt and reply, typically to an isolated log file.
func WithLogging(next LLMProvider, log logger.ILogger, name string) LLMProvider {
	return &loggingProvider{next: next, log: log, name: name}
}

func (p *loggingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	start := time.Now()
	reply, err := p.next.Chat(ctx, history, options...)

	details := map[string]interface{}{
		"provider":    p.name,
		"messages":    history,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		details["error"] = err.Error()
		p.log.Error("LLM", "chat failed", details)
		return "", err
	}
	details["reply"] = reply
	p.log.Info("LLM", "chat completed", details)
	return reply, nil
}

func (p *loggingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
