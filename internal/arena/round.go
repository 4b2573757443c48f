package arena

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"gaccia/internal/llm"
)

// Orchestrator drives competitive sessions: it owns the agent panel and the
// round loop. NewID and Now are injectable for deterministic tests.
type Orchestrator struct {
	pythonArchitect     *Architect
	typescriptArchitect *Architect
	polyglot            *PolyglotArchitect
	pythonCoder         *Coder
	typescriptCoder     *Coder

	// NewID generates session identifiers. Defaults to uuid.NewString.
	NewID func() string
	// Now supplies session timestamps. Defaults to time.Now.
	Now func() time.Time
	// Log receives round progress. Defaults to log.Default().
	Log *log.Logger
}

func NewOrchestrator(cli llm.TextClient) *Orchestrator {
	return &Orchestrator{
		pythonArchitect:     &Architect{LLM: cli, Lang: Python},
		typescriptArchitect: &Architect{LLM: cli, Lang: TypeScript},
		polyglot:            &PolyglotArchitect{LLM: cli},
		pythonCoder:         &Coder{LLM: cli, Lang: Python},
		typescriptCoder:     &Coder{LLM: cli, Lang: TypeScript},
		NewID:               uuid.NewString,
		Now:                 time.Now,
		Log:                 log.Default(),
	}
}

func (o *Orchestrator) architect(lang Language) *Architect {
	if lang == Python {
		return o.pythonArchitect
	}
	return o.typescriptArchitect
}

func (o *Orchestrator) coder(lang Language) *Coder {
	if lang == Python {
		return o.pythonCoder
	}
	return o.typescriptCoder
}

// RunRound performs one directional conversion from source to target. The six
// steps run strictly in sequence because each step's output feeds the next.
// Any service error aborts the round; no partial Implementation is produced.
func (o *Orchestrator) RunRound(ctx context.Context, code string, source, target Language, version int) (Implementation, error) {
	var zero Implementation
	if !source.Valid() || !target.Valid() {
		return zero, ErrInvalidLanguage
	}
	if source == target {
		return zero, ErrSameLanguage
	}
	if version < 1 {
		return zero, fmt.Errorf("arena: version must be >= 1, got %d", version)
	}

	o.Log.Printf("converting %s -> %s (v%d)", source, target, version)

	analysis, err := o.architect(source).AnalyzeCode(ctx, code, source)
	if err != nil {
		return zero, fmt.Errorf("analyze %s code: %w", source, err)
	}

	conversionPlan, err := o.polyglot.CreateConversionPlan(ctx, analysis, source, target)
	if err != nil {
		return zero, fmt.Errorf("plan conversion %s -> %s: %w", source, target, err)
	}

	implPlan, err := o.architect(target).PlanImplementation(ctx, analysis, conversionPlan)
	if err != nil {
		return zero, fmt.Errorf("plan %s implementation: %w", target, err)
	}

	implemented, err := o.coder(target).ImplementCode(ctx, implPlan, code)
	if err != nil {
		return zero, fmt.Errorf("implement %s code: %w", target, err)
	}

	review, err := o.architect(target).ReviewImplementation(ctx, implemented)
	if err != nil {
		return zero, fmt.Errorf("review %s implementation: %w", target, err)
	}

	conversionReview, err := o.polyglot.ReviewConversion(ctx, code, implemented, source, target)
	if err != nil {
		return zero, fmt.Errorf("validate conversion %s -> %s: %w", source, target, err)
	}

	return Implementation{
		Code:     implemented,
		Language: target,
		Version:  version,
		Notes:    fmt.Sprintf("Review: %s\n\nConversion Review: %s", review, conversionReview),
	}, nil
}
