package arena

import (
	"context"
	"fmt"
)

// RunSession runs rounds conversions, strictly alternating target language
// starting opposite the original language. Each round consumes the previous
// round's output, so rounds cannot run in parallel.
//
// recorder may be nil. Recorder failures are logged and never abort the loop;
// the in-memory Session stays authoritative regardless of persistence.
func (o *Orchestrator) RunSession(ctx context.Context, code string, language Language, rounds int, recorder RoundRecorder) (*Session, error) {
	if !language.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("arena: rounds must be >= 1, got %d", rounds)
	}

	session := &Session{
		ID:               o.NewID(),
		OriginalCode:     code,
		OriginalLanguage: language,
		CreatedAt:        o.Now(),
	}

	currentCode := code
	currentLanguage := language

	for round := 1; round <= rounds; round++ {
		o.Log.Printf("round %d/%d", round, rounds)
		target := currentLanguage.Other()

		impl, err := o.RunRound(ctx, currentCode, currentLanguage, target, round)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		session.append(impl)

		if recorder != nil {
			if err := recorder.RecordRound(round, impl); err != nil {
				o.Log.Printf("record round %d failed (continuing): %v", round, err)
			}
		}

		currentCode = impl.Code
		currentLanguage = target
		o.Log.Printf("round %d complete: %s implementation ready", round, target)
	}

	return session, nil
}
