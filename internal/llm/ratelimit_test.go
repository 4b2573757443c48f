package llm

import (
	"context"
	"testing"
	"time"
)

func TestRPSLimiter_DisabledWhenZero(t *testing.T) {
	l := newRPSLimiter(0, 0)
	if l != nil {
		t.Fatalf("expected nil limiter for rps<=0")
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("nil limiter Acquire should be a no-op, got %v", err)
	}
}

func TestRPSLimiter_AllowsBurstThenBlocks(t *testing.T) {
	l := newRPSLimiter(1, 2)
	defer l.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("burst acquire %d failed: %v", i, err)
		}
	}

	// Bucket drained; a canceled context must unblock immediately.
	canceled, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(canceled); err == nil {
		t.Fatalf("expected context deadline error after burst drained")
	}
}

func TestRateLimit_PassthroughWhenDisabled(t *testing.T) {
	inner := &scriptedClient{out: "ok"}
	cli := Wrap(inner, RateLimit(0, 0))

	out, err := cli.GenerateText(context.Background(), "p")
	if err != nil || out != "ok" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}
}
