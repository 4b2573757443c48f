package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// WithCache memoizes successful completions keyed by prompt hash. Entries
// expire after ttl. Errors are never cached.
func WithCache(maxEntries int, ttl time.Duration) Middleware {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return func(next TextClient) TextClient {
		return &cached{
			next:  next,
			cache: expirable.NewLRU[string, string](maxEntries, nil, ttl),
		}
	}
}

type cached struct {
	next  TextClient
	cache *expirable.LRU[string, string]
}

func (c *cached) Name() string { return c.next.Name() }
func (c *cached) Close() error { return c.next.Close() }
func (c *cached) CountTokens(text string) int {
	return c.next.CountTokens(text)
}
func (c *cached) TokenCapacity() int { return c.next.TokenCapacity() }

func (c *cached) GenerateText(ctx context.Context, prompt string) (string, error) {
	key := promptKey(c.next.Name(), prompt)
	if out, ok := c.cache.Get(key); ok {
		return out, nil
	}
	out, err := c.next.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}

func promptKey(model, prompt string) string {
	h := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(h[:])
}
