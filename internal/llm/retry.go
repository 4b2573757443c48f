package llm

import (
	"context"
	"errors"
	"time"
)

// Retry retries GenerateText up to maxAttempts with exponential backoff
// starting at baseDelay. If context is canceled, it stops immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next TextClient) TextClient {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next TextClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }
func (r *retrying) CountTokens(text string) int {
	return r.next.CountTokens(text)
}
func (r *retrying) TokenCapacity() int { return r.next.TokenCapacity() }

func (r *retrying) GenerateText(ctx context.Context, prompt string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateText(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		// If it's a permanent error, do not retry.
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return "", err
		}
		last = err
		// Stop immediately if the context is canceled.
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return "", last
}
