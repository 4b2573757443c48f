package arena

import (
	"time"
)

// Implementation is one produced code artifact. It is created exactly once per
// round and never mutated afterwards.
type Implementation struct {
	Code     string   `json:"code"`
	Language Language `json:"language"`
	// Version is the 1-based ordinal of the round that produced it.
	Version int `json:"version"`
	// Notes combines the architect review and the cross-language validation
	// commentary for the round.
	Notes string `json:"notes"`
}

// Session is the state of one end-to-end competitive run. Implementations are
// append-only; the two sequences' lengths can differ by at most one because
// rounds strictly alternate target language.
type Session struct {
	ID                        string           `json:"id"`
	OriginalCode              string           `json:"original_code"`
	OriginalLanguage          Language         `json:"original_language"`
	PythonImplementations     []Implementation `json:"python_implementations"`
	TypeScriptImplementations []Implementation `json:"typescript_implementations"`
	CreatedAt                 time.Time        `json:"created_at"`
}

// FinalCode returns the latest implementation code for lang, or the empty
// string when that side has none.
func (s *Session) FinalCode(lang Language) string {
	impls := s.Implementations(lang)
	if len(impls) == 0 {
		return ""
	}
	return impls[len(impls)-1].Code
}

// Implementations returns the ordered sequence for lang.
func (s *Session) Implementations(lang Language) []Implementation {
	if lang == Python {
		return s.PythonImplementations
	}
	return s.TypeScriptImplementations
}

// RoundsCompleted is the total number of finished rounds.
func (s *Session) RoundsCompleted() int {
	return len(s.PythonImplementations) + len(s.TypeScriptImplementations)
}

func (s *Session) append(impl Implementation) {
	if impl.Language == Python {
		s.PythonImplementations = append(s.PythonImplementations, impl)
	} else {
		s.TypeScriptImplementations = append(s.TypeScriptImplementations, impl)
	}
}

// RoundRecorder receives per-round artifacts as they are produced. Recording
// is best-effort: a recorder failure never aborts the session loop.
type RoundRecorder interface {
	RecordRound(roundNum int, impl Implementation) error
}
