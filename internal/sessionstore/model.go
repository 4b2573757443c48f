// Package sessionstore keeps a queryable ledger of completed competition
// sessions. It backs onto either a JSON file or Postgres, selected at
// construction time behind one facade.
package sessionstore

import (
	"strings"
	"time"

	"gaccia/internal/arena"
	"gaccia/internal/judge"
)

// Record is one completed session's denormalized outcome. The full artifact
// tree lives in the results directory; the store only keeps what listing and
// comparison queries need.
type Record struct {
	SessionID        string         `json:"session_id"`
	Name             string         `json:"name"`
	OriginalLanguage arena.Language `json:"original_language"`
	Rounds           int            `json:"rounds"`
	Winner           judge.Winner   `json:"winner"`
	PythonScore      float64        `json:"python_score"`
	TypeScriptScore  float64        `json:"typescript_score"`
	ResultsDir       string         `json:"results_dir"`
	CreatedAt        time.Time      `json:"created_at"`
	CompletedAt      time.Time      `json:"completed_at"`
}

func normalizeRecord(r Record) Record {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = "session"
	}
	if r.Winner == "" {
		r.Winner = judge.WinnerTie
	}
	return r
}

// FromCompleted builds a Record from a finished competition run.
func FromCompleted(done *arena.CompletedSession, name, resultsDir string) Record {
	return normalizeRecord(Record{
		SessionID:        done.Session.ID,
		Name:             name,
		OriginalLanguage: done.Session.OriginalLanguage,
		Rounds:           done.Session.RoundsCompleted(),
		Winner:           done.Evaluation.Winner,
		PythonScore:      done.Evaluation.PythonTotal,
		TypeScriptScore:  done.Evaluation.TypeScriptTotal,
		ResultsDir:       resultsDir,
		CreatedAt:        done.Session.CreatedAt,
		CompletedAt:      done.CompletedAt,
	})
}
