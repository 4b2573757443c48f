package arena

import (
	"context"
	"fmt"
	"log"
	"time"

	"gaccia/internal/judge"
	"gaccia/internal/llm"
)

// CompetitionRecorder persists a full competition's artifacts. All methods are
// best-effort: failures are logged, never rolled back into orchestration state.
type CompetitionRecorder interface {
	RoundRecorder
	RecordEvaluation(ev *judge.CompetitiveEvaluation) error
	RecordSummary(s *Session, ev *judge.CompetitiveEvaluation) error
}

// CompletedSession is a finished competitive run with its evaluation.
type CompletedSession struct {
	Session     *Session
	Evaluation  *judge.CompetitiveEvaluation
	CompletedAt time.Time
}

// ScoreSummary renders the one-line score comparison.
func (c *CompletedSession) ScoreSummary() string {
	return fmt.Sprintf("Python: %.1f/10, TypeScript: %.1f/10",
		c.Evaluation.PythonTotal, c.Evaluation.TypeScriptTotal)
}

// Winner returns the winning side.
func (c *CompletedSession) Winner() judge.Winner { return c.Evaluation.Winner }

// Competition composes the session orchestrator with the evaluation panel.
type Competition struct {
	Orchestrator *Orchestrator
	Evaluator    *judge.Evaluator
	Log          *log.Logger
}

func NewCompetition(cli llm.TextClient) *Competition {
	return &Competition{
		Orchestrator: NewOrchestrator(cli),
		Evaluator:    judge.NewEvaluator(cli),
		Log:          log.Default(),
	}
}

// Run executes the full competition: the round loop followed by evaluation of
// the final pair of implementations. It fails with ErrIncompleteSession when
// either language ends up with zero implementations (e.g. rounds == 1), since
// evaluating a converted implementation against the raw original would be an
// unfair comparison.
func (c *Competition) Run(ctx context.Context, code string, language Language, rounds int, recorder CompetitionRecorder) (*CompletedSession, error) {
	var roundRecorder RoundRecorder
	if recorder != nil {
		roundRecorder = recorder
	}

	session, err := c.Orchestrator.RunSession(ctx, code, language, rounds, roundRecorder)
	if err != nil {
		return nil, err
	}

	finalPython := session.FinalCode(Python)
	finalTypeScript := session.FinalCode(TypeScript)
	if finalPython == "" || finalTypeScript == "" {
		return nil, fmt.Errorf("%w: python=%d typescript=%d implementations",
			ErrIncompleteSession,
			len(session.PythonImplementations), len(session.TypeScriptImplementations))
	}

	evaluation, err := c.Evaluator.Evaluate(ctx, finalPython, finalTypeScript)
	if err != nil {
		return nil, fmt.Errorf("evaluate session %s: %w", session.ID, err)
	}

	if recorder != nil {
		if err := recorder.RecordEvaluation(evaluation); err != nil {
			c.Log.Printf("record evaluation failed (continuing): %v", err)
		}
		if err := recorder.RecordSummary(session, evaluation); err != nil {
			c.Log.Printf("record summary failed (continuing): %v", err)
		}
	}

	return &CompletedSession{
		Session:     session,
		Evaluation:  evaluation,
		CompletedAt: c.Orchestrator.Now(),
	}, nil
}
