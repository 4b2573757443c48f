package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedClient struct {
	errs  []error
	out   string
	calls int
}

func (s *scriptedClient) Name() string              { return "scripted" }
func (s *scriptedClient) Close() error              { return nil }
func (s *scriptedClient) CountTokens(t string) int  { return len(t) / 4 }
func (s *scriptedClient) TokenCapacity() int        { return 4096 }
func (s *scriptedClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.out, nil
}

func TestRetry_SucceedsAfterTransientErrors(t *testing.T) {
	inner := &scriptedClient{errs: []error{errors.New("boom"), errors.New("boom")}, out: "ok"}
	cli := Wrap(inner, Retry(3, time.Millisecond))

	out, err := cli.GenerateText(context.Background(), "p")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	perm := NewPermanentError(errors.New("bad auth"))
	inner := &scriptedClient{errs: []error{perm, nil}, out: "ok"}
	cli := Wrap(inner, Retry(3, time.Millisecond))

	_, err := cli.GenerateText(context.Background(), "p")
	var pErr *PermanentError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", inner.calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	inner := &scriptedClient{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
	cli := Wrap(inner, Retry(3, time.Millisecond))

	_, err := cli.GenerateText(context.Background(), "p")
	if err == nil || err.Error() != "c" {
		t.Fatalf("expected last error %q, got %v", "c", err)
	}
}
