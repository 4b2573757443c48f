package llm

import (
	"context"
	"log"
)

// Middleware decorates a TextClient to inject cross-cutting concerns
// (rate limiting, retries, logging, hooks, caching).
type Middleware func(TextClient) TextClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner TextClient, mws ...Middleware) TextClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next TextClient) TextClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next TextClient
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) CountTokens(text string) int {
	return l.next.CountTokens(text)
}
func (l *logging) TokenCapacity() int { return l.next.TokenCapacity() }

func (l *logging) GenerateText(ctx context.Context, prompt string) (string, error) {
	l.log.Printf("LLM request (%s): %d bytes", AgentFrom(ctx), len(prompt))
	out, err := l.next.GenerateText(ctx, prompt)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", AgentFrom(ctx), err)
	}
	return out, err
}
