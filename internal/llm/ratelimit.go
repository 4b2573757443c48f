package llm

import (
	"context"
	"os"
	"strconv"
	"time"
)

// rpsLimiter is a lightweight token-bucket limiter that throttles to at most
// R requests per second with an optional burst capacity.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

// newRPSLimiter creates a limiter that allows up to rps events per second
// with a burst capacity of 'burst'. If rps <= 0, the limiter is disabled
// (Acquire becomes a no-op).
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}

	// Pre-fill bucket to allow an initial burst.
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	// Refill at the configured rate.
	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond // safeguard
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
					// bucket full; drop token
				}
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Acquire blocks until a token is available or the context is canceled.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

// Stop terminates the limiter's refill goroutine.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	close(l.stopCh)
}

// RateLimit limits request rate using the token-bucket limiter.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next TextClient) TextClient {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next TextClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) CountTokens(text string) int {
	return c.next.CountTokens(text)
}
func (c *rateLimited) TokenCapacity() int { return c.next.TokenCapacity() }

func (c *rateLimited) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return c.next.GenerateText(ctx, prompt)
}

// RateLimitFromEnv reads RPS/BURST from environment variables with the given
// prefixes in priority order. For example, ("LLM","GEMINI") checks
// LLM_RPS/LLM_BURST first, then GEMINI_RPS/GEMINI_BURST.
func RateLimitFromEnv(prefixes ...string) Middleware {
	readFloat := func(key string) float64 {
		if key == "" {
			return 0
		}
		v := os.Getenv(key)
		if v == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	readInt := func(key string) int {
		if key == "" {
			return 0
		}
		v := os.Getenv(key)
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	find := func(suffix string) string {
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			k := p + suffix
			if os.Getenv(k) != "" {
				return k
			}
		}
		return ""
	}
	return func(next TextClient) TextClient {
		rps := readFloat(find("_RPS"))
		burst := readInt(find("_BURST"))
		rl := newRPSLimiter(rps, burst)
		return &rateLimited{next: next, rl: rl}
	}
}
