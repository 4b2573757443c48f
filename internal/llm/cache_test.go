package llm

import (
	"context"
	"testing"
	"time"
)

func TestWithCache_HitsDoNotCallThrough(t *testing.T) {
	inner := &scriptedClient{out: "cached value"}
	cli := Wrap(inner, WithCache(8, time.Minute))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := cli.GenerateText(ctx, "same prompt")
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if out != "cached value" {
			t.Fatalf("call %d unexpected output %q", i, out)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected single inner call, got %d", inner.calls)
	}

	if _, err := cli.GenerateText(ctx, "different prompt"); err != nil {
		t.Fatalf("miss failed: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected cache miss to call through, got %d calls", inner.calls)
	}
}

func TestWithHooks_InvokesBeforeAndAfter(t *testing.T) {
	inner := &scriptedClient{out: "resp"}
	cli := Wrap(inner, WithHooks())

	var got []string
	hook := &recordingHook{events: &got}
	ctx := WithPromptHook(WithAgent(context.Background(), "python-architect"), hook)

	if _, err := cli.GenerateText(ctx, "p"); err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if len(got) != 2 || got[0] != "before:python-architect" || got[1] != "after:python-architect" {
		t.Fatalf("unexpected hook events %v", got)
	}
}

type recordingHook struct{ events *[]string }

func (r *recordingHook) Before(ctx context.Context, agent, prompt string) {
	*r.events = append(*r.events, "before:"+agent)
}
func (r *recordingHook) After(ctx context.Context, agent, response string, err error) {
	*r.events = append(*r.events, "after:"+agent)
}
