// Package results persists competition artifacts to a per-session directory,
// optionally mirroring every file to object storage.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gaccia/internal/arena"
	"gaccia/internal/judge"
)

// Mirror receives a copy of every written file, keyed by session ID and the
// file's path relative to the session directory.
type Mirror interface {
	Put(ctx context.Context, sessionID, path string, content []byte) error
}

// Logger writes intermediate and final session artifacts under
// <root>/<timestamp>_<name>/. It implements arena.CompetitionRecorder, so it
// can be handed directly to a competition run. All writes go through one
// code path; mirror failures are logged and never propagated.
type Logger struct {
	baseDir   string
	sessionID string

	// Mirror optionally replicates every artifact to object storage.
	Mirror Mirror
	// Log receives persistence progress. Defaults to log.Default().
	Log *log.Logger
}

// NewLogger creates the session directory for name, timestamped with now.
func NewLogger(root, name string, now time.Time) (*Logger, error) {
	dir := filepath.Join(root, fmt.Sprintf("%s_%s", now.Format("20060102_150405"), name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &Logger{baseDir: dir, Log: log.Default()}, nil
}

// Dir returns the absolute-or-relative session directory path.
func (l *Logger) Dir() string { return l.baseDir }

// SetSessionID sets the object-storage prefix for mirrored artifacts. Without
// it the directory name is used.
func (l *Logger) SetSessionID(id string) { l.sessionID = id }

func (l *Logger) write(rel string, content []byte) error {
	dst := filepath.Join(l.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return err
	}
	if l.Mirror != nil {
		id := l.sessionID
		if id == "" {
			id = filepath.Base(l.baseDir)
		}
		if err := l.Mirror.Put(context.Background(), id, filepath.ToSlash(rel), content); err != nil {
			l.Log.Printf("mirror %s failed (continuing): %v", rel, err)
		}
	}
	return nil
}

func (l *Logger) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}
	return l.write(rel, append(data, '\n'))
}

// RecordRound saves one round's implementation and its review notes under
// round_<N>/.
func (l *Logger) RecordRound(roundNum int, impl arena.Implementation) error {
	rel := filepath.Join(fmt.Sprintf("round_%d", roundNum),
		fmt.Sprintf("implementation_v%d.%s", impl.Version, impl.Language.Ext()))
	if err := l.write(rel, []byte(impl.Code)); err != nil {
		return fmt.Errorf("save round %d implementation: %w", roundNum, err)
	}
	notes := filepath.Join(fmt.Sprintf("round_%d", roundNum), "notes.md")
	if err := l.write(notes, []byte(impl.Notes)); err != nil {
		return fmt.Errorf("save round %d notes: %w", roundNum, err)
	}
	return nil
}

// evaluationReport is the serialized shape of evaluation_report.json.
type evaluationReport struct {
	Summary struct {
		PythonTotalScore     float64      `json:"python_total_score"`
		TypeScriptTotalScore float64      `json:"typescript_total_score"`
		Winner               judge.Winner `json:"winner"`
		PythonSnark          string       `json:"python_snark"`
		TypeScriptSnark      string       `json:"typescript_snark"`
	} `json:"summary"`
	PythonEvaluations     []judge.DimensionScore `json:"python_evaluations"`
	TypeScriptEvaluations []judge.DimensionScore `json:"typescript_evaluations"`
}

// RecordEvaluation saves the evaluation report (JSON + readable summary) and
// the snark commentary.
func (l *Logger) RecordEvaluation(ev *judge.CompetitiveEvaluation) error {
	var report evaluationReport
	report.Summary.PythonTotalScore = ev.PythonTotal
	report.Summary.TypeScriptTotalScore = ev.TypeScriptTotal
	report.Summary.Winner = ev.Winner
	report.Summary.PythonSnark = ev.PythonSnark
	report.Summary.TypeScriptSnark = ev.TypeScriptSnark
	report.PythonEvaluations = ev.PythonScores
	report.TypeScriptEvaluations = ev.TypeScriptScores

	if err := l.writeJSON("evaluation_report.json", report); err != nil {
		return err
	}
	if err := l.write("evaluation_summary.txt", []byte(ev.Summary)); err != nil {
		return fmt.Errorf("save evaluation summary: %w", err)
	}
	snark := fmt.Sprintf("**Python's take:** %s\n\n**TypeScript's take:** %s\n",
		ev.PythonSnark, ev.TypeScriptSnark)
	if err := l.write("snark.md", []byte(snark)); err != nil {
		return fmt.Errorf("save snark: %w", err)
	}
	return nil
}

// RecordSummary writes the human-readable SUMMARY.md for the whole run.
func (l *Logger) RecordSummary(s *arena.Session, ev *judge.CompetitiveEvaluation) error {
	rounds := len(s.PythonImplementations)
	if n := len(s.TypeScriptImplementations); n > rounds {
		rounds = n
	}
	summary := fmt.Sprintf(`# Session Summary

**Session ID:** %s
**Started:** %s
**Rounds:** %d

## Final Results

**Winner:** %s
**Scores:** Python %.1f/10 vs TypeScript %.1f/10

## Competitive Snark

- Python: %s
- TypeScript: %s

Detailed evaluation scores and code for each round can be found in the
subfolders of this run.
`,
		s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), rounds,
		ev.Winner, ev.PythonTotal, ev.TypeScriptTotal,
		ev.PythonSnark, ev.TypeScriptSnark)
	if err := l.write("SUMMARY.md", []byte(summary)); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// SaveImagePrompts stores generated image prompts. A nil or empty map is a
// no-op.
func (l *Logger) SaveImagePrompts(prompts map[string]string) error {
	if len(prompts) == 0 {
		return nil
	}
	return l.writeJSON("image_prompts.json", prompts)
}

// sessionMetadata is the serialized shape of session_metadata.json.
type sessionMetadata struct {
	SessionID        string             `json:"session_id"`
	OriginalLanguage arena.Language     `json:"original_language"`
	CreatedAt        string             `json:"created_at"`
	CompletedAt      string             `json:"completed_at"`
	RoundsCompleted  int                `json:"rounds_completed"`
	Winner           judge.Winner       `json:"winner"`
	FinalScores      map[string]float64 `json:"final_scores"`
	CompetitiveSnark map[string]string  `json:"competitive_snark"`
}

// SaveComplete persists a finished competition: the original code, every
// implementation in evolution order, and the session metadata. Round and
// evaluation artifacts are assumed to have been recorded during the run.
func (l *Logger) SaveComplete(done *arena.CompletedSession) error {
	s := done.Session

	orig := fmt.Sprintf("01_original.%s", s.OriginalLanguage.Ext())
	if err := l.write(orig, []byte(s.OriginalCode)); err != nil {
		return fmt.Errorf("save original code: %w", err)
	}
	for i, impl := range s.PythonImplementations {
		name := fmt.Sprintf("%02d_python_v%d.py", i+2, impl.Version)
		if err := l.write(name, []byte(impl.Code)); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	for i, impl := range s.TypeScriptImplementations {
		name := fmt.Sprintf("%02d_typescript_v%d.ts", i+2, impl.Version)
		if err := l.write(name, []byte(impl.Code)); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}

	meta := sessionMetadata{
		SessionID:        s.ID,
		OriginalLanguage: s.OriginalLanguage,
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		CompletedAt:      done.CompletedAt.Format(time.RFC3339),
		RoundsCompleted:  s.RoundsCompleted(),
		Winner:           done.Evaluation.Winner,
		FinalScores: map[string]float64{
			"python":     done.Evaluation.PythonTotal,
			"typescript": done.Evaluation.TypeScriptTotal,
		},
		CompetitiveSnark: map[string]string{
			"python":     done.Evaluation.PythonSnark,
			"typescript": done.Evaluation.TypeScriptSnark,
		},
	}
	return l.writeJSON("session_metadata.json", meta)
}
