package sessionstore

import (
	"strings"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS competition_sessions (
  session_id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT 'session',
  original_language TEXT NOT NULL,
  rounds INTEGER NOT NULL DEFAULT 0,
  winner TEXT NOT NULL DEFAULT 'tie',
  python_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  typescript_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  results_dir TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL,
  completed_at TIMESTAMP WITH TIME ZONE NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_competition_sessions_completed_at ON competition_sessions (completed_at DESC);
`)
	})
	return s.schemaErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecordDB(row rowScanner) (Record, bool) {
	var rec Record
	err := row.Scan(
		&rec.SessionID,
		&rec.Name,
		&rec.OriginalLanguage,
		&rec.Rounds,
		&rec.Winner,
		&rec.PythonScore,
		&rec.TypeScriptScore,
		&rec.ResultsDir,
		&rec.CreatedAt,
		&rec.CompletedAt,
	)
	if err != nil {
		return Record{}, false
	}
	return normalizeRecord(rec), true
}

func (s *Store) getDB(sessionID string) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Record{}, false
	}
	row := s.db.QueryRow(`SELECT session_id, name, original_language, rounds, winner,
  python_score, typescript_score, results_dir, created_at, completed_at
FROM competition_sessions WHERE session_id = $1`, id)
	return scanRecordDB(row)
}

func (s *Store) putDB(rec Record) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeRecord(rec)
	if n.SessionID == "" {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO competition_sessions (
  session_id, name, original_language, rounds, winner,
  python_score, typescript_score, results_dir, created_at, completed_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (session_id)
DO UPDATE SET name=EXCLUDED.name,
  original_language=EXCLUDED.original_language,
  rounds=EXCLUDED.rounds,
  winner=EXCLUDED.winner,
  python_score=EXCLUDED.python_score,
  typescript_score=EXCLUDED.typescript_score,
  results_dir=EXCLUDED.results_dir,
  created_at=EXCLUDED.created_at,
  completed_at=EXCLUDED.completed_at`,
		n.SessionID, n.Name, n.OriginalLanguage, n.Rounds, n.Winner,
		n.PythonScore, n.TypeScriptScore, n.ResultsDir, n.CreatedAt, n.CompletedAt)
}

func (s *Store) listDB() []Record {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT session_id, name, original_language, rounds, winner,
  python_score, typescript_score, results_dir, created_at, completed_at
FROM competition_sessions ORDER BY completed_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Record, 0, 32)
	for rows.Next() {
		if rec, ok := scanRecordDB(rows); ok {
			out = append(out, rec)
		}
	}
	return out
}
