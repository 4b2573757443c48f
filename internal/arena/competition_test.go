package arena

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"gaccia/internal/judge"
	"gaccia/internal/llm"
)

type capturingRecorder struct {
	rounds     []int
	evaluation *judge.CompetitiveEvaluation
	summarized bool
}

func (r *capturingRecorder) RecordRound(roundNum int, impl Implementation) error {
	r.rounds = append(r.rounds, roundNum)
	return nil
}

func (r *capturingRecorder) RecordEvaluation(ev *judge.CompetitiveEvaluation) error {
	r.evaluation = ev
	return nil
}

func (r *capturingRecorder) RecordSummary(s *Session, ev *judge.CompetitiveEvaluation) error {
	r.summarized = true
	return nil
}

func newTestCompetition(fake *llm.FakeClient) *Competition {
	c := NewCompetition(fake)
	c.Log = log.New(io.Discard, "", 0)
	c.Orchestrator.Log = c.Log
	c.Evaluator.Log = c.Log
	return c
}

func TestCompetitionRun(t *testing.T) {
	fake := llm.NewFakeClient(0)
	c := newTestCompetition(fake)
	rec := &capturingRecorder{}

	done, err := c.Run(context.Background(), "def f(): pass", Python, 2, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if done.Session.RoundsCompleted() != 2 {
		t.Errorf("rounds completed = %d, want 2", done.Session.RoundsCompleted())
	}
	// The fake scores every judge 7.5, so the verdict must be a tie.
	if got := done.Winner(); got != judge.WinnerTie {
		t.Errorf("winner = %q, want tie", got)
	}
	if done.Evaluation.PythonTotal != 7.5 || done.Evaluation.TypeScriptTotal != 7.5 {
		t.Errorf("totals = %.2f / %.2f, want 7.5 / 7.5",
			done.Evaluation.PythonTotal, done.Evaluation.TypeScriptTotal)
	}
	if len(rec.rounds) != 2 {
		t.Errorf("recorded rounds = %v, want [1 2]", rec.rounds)
	}
	if rec.evaluation == nil || !rec.summarized {
		t.Error("recorder did not receive evaluation and summary")
	}
	if done.ScoreSummary() == "" {
		t.Error("empty score summary")
	}
}

func TestCompetitionRunIncompleteSession(t *testing.T) {
	fake := llm.NewFakeClient(0)
	c := newTestCompetition(fake)

	// One round from python produces only a typescript implementation; judging
	// would have to compare against the unconverted original, which is refused.
	_, err := c.Run(context.Background(), "def f(): pass", Python, 1, nil)
	if !errors.Is(err, ErrIncompleteSession) {
		t.Fatalf("err = %v, want ErrIncompleteSession", err)
	}
}

func TestCompetitionRunEvaluationFailure(t *testing.T) {
	fake := llm.NewFakeClient(0)
	fake.Fail = map[string]error{"judge-readability-python": errors.New("service unavailable")}
	c := newTestCompetition(fake)

	_, err := c.Run(context.Background(), "def f(): pass", Python, 2, nil)
	if err == nil {
		t.Fatal("expected evaluation failure to surface")
	}
}
