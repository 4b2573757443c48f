package imagery

import (
	"context"
	"errors"
	"testing"

	"gaccia/internal/judge"
	"gaccia/internal/llm"
)

func TestSessionPrompts(t *testing.T) {
	fake := llm.NewFakeClient(0)
	fake.Default = "a dramatic arena scene"
	a := &Agent{LLM: fake}

	ev := &judge.CompetitiveEvaluation{
		PythonTotal:     8.0,
		TypeScriptTotal: 7.0,
		Winner:          judge.WinnerPython,
	}
	prompts, err := a.SessionPrompts(context.Background(), "python", 2, ev)
	if err != nil {
		t.Fatalf("SessionPrompts: %v", err)
	}

	for _, key := range []string{"battle_start", "round_1", "round_2", "scorecard"} {
		if prompts[key] != "a dramatic arena scene" {
			t.Errorf("prompt %q = %q", key, prompts[key])
		}
	}
	if len(prompts) != 4 {
		t.Errorf("prompts = %d entries, want 4", len(prompts))
	}
}

func TestSessionPromptsFailureReturnsNothing(t *testing.T) {
	fake := llm.NewFakeClient(0)
	fake.Fail = map[string]error{"image-prompt": errors.New("unavailable")}
	a := &Agent{LLM: fake}

	prompts, err := a.SessionPrompts(context.Background(), "python", 1, &judge.CompetitiveEvaluation{})
	if err == nil {
		t.Fatal("expected error")
	}
	if prompts != nil {
		t.Fatalf("partial prompts returned: %v", prompts)
	}
}
