package judge

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"gaccia/internal/llm"
)

// Evaluator runs the fixed dimension panel against both implementations and
// aggregates the verdict.
type Evaluator struct {
	pythonJudges     []*Judge
	typescriptJudges []*Judge
	pythonSnark      *SnarkGenerator
	typescriptSnark  *SnarkGenerator

	// Log receives evaluation progress. Defaults to log.Default().
	Log *log.Logger
}

func NewEvaluator(cli llm.TextClient) *Evaluator {
	e := &Evaluator{Log: log.Default()}
	for _, dim := range Panel() {
		e.pythonJudges = append(e.pythonJudges, &Judge{LLM: cli, Dimension: dim, Language: "python"})
		e.typescriptJudges = append(e.typescriptJudges, &Judge{LLM: cli, Dimension: dim, Language: "typescript"})
	}
	e.pythonSnark = &SnarkGenerator{LLM: cli, Language: "python"}
	e.typescriptSnark = &SnarkGenerator{LLM: cli, Language: "typescript"}
	return e
}

// Evaluate scores both implementations across the panel and decides the
// winner. The per-dimension requests are independent, so they run
// concurrently into index-stable slots and are reduced in panel order; a
// service failure on any request aborts the whole evaluation. Unparseable
// scores degrade to DefaultScore and never fail the run.
func (e *Evaluator) Evaluate(ctx context.Context, pythonCode, typescriptCode string) (*CompetitiveEvaluation, error) {
	if strings.TrimSpace(pythonCode) == "" {
		return nil, fmt.Errorf("judge: python code is empty")
	}
	if strings.TrimSpace(typescriptCode) == "" {
		return nil, fmt.Errorf("judge: typescript code is empty")
	}

	e.Log.Printf("evaluating %d dimensions per language", len(Panel()))

	pythonScores := make([]DimensionScore, len(e.pythonJudges))
	typescriptScores := make([]DimensionScore, len(e.typescriptJudges))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range e.pythonJudges {
		g.Go(func() error {
			score, err := j.Evaluate(gctx, pythonCode, "python")
			if err != nil {
				return err
			}
			pythonScores[i] = score
			return nil
		})
	}
	for i, j := range e.typescriptJudges {
		g.Go(func() error {
			score, err := j.Evaluate(gctx, typescriptCode, "typescript")
			if err != nil {
				return err
			}
			typescriptScores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pythonTotal := Mean(pythonScores)
	typescriptTotal := Mean(typescriptScores)
	winner := DecideWinner(pythonTotal, typescriptTotal)

	e.Log.Printf("totals: python %.1f, typescript %.1f, winner %s", pythonTotal, typescriptTotal, winner)

	// Snark is generated after the verdict and about the opposing side's code.
	pythonSnark, err := e.pythonSnark.Generate(ctx, typescriptCode,
		fmt.Sprintf("TypeScript scored %.1f/10 overall", typescriptTotal))
	if err != nil {
		return nil, err
	}
	typescriptSnark, err := e.typescriptSnark.Generate(ctx, pythonCode,
		fmt.Sprintf("Python scored %.1f/10 overall", pythonTotal))
	if err != nil {
		return nil, err
	}

	ev := &CompetitiveEvaluation{
		PythonScores:     pythonScores,
		TypeScriptScores: typescriptScores,
		PythonTotal:      pythonTotal,
		TypeScriptTotal:  typescriptTotal,
		Winner:           winner,
		PythonSnark:      pythonSnark,
		TypeScriptSnark:  typescriptSnark,
	}
	ev.Summary = renderSummary(ev)
	return ev, nil
}

func renderSummary(ev *CompetitiveEvaluation) string {
	var b strings.Builder
	b.WriteString("COMPETITIVE EVALUATION RESULTS\n\n")
	fmt.Fprintf(&b, "Python Total Score: %.1f/10\n", ev.PythonTotal)
	fmt.Fprintf(&b, "TypeScript Total Score: %.1f/10\n\n", ev.TypeScriptTotal)
	fmt.Fprintf(&b, "Winner: %s\n\n", ev.Winner)
	fmt.Fprintf(&b, "Python's take: %s\n", ev.PythonSnark)
	fmt.Fprintf(&b, "TypeScript's take: %s\n", ev.TypeScriptSnark)
	return b.String()
}
