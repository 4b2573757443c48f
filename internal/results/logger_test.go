package results

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gaccia/internal/arena"
	"gaccia/internal/judge"
)

var testTime = time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := NewLogger(t.TempDir(), "fibonacci", testTime)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Log = log.New(io.Discard, "", 0)
	return l
}

func readArtifact(t *testing.T, l *Logger, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(l.Dir(), rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestLoggerDirName(t *testing.T) {
	l := newTestLogger(t)
	if got := filepath.Base(l.Dir()); got != "20260801_123000_fibonacci" {
		t.Fatalf("dir = %q, want timestamped session name", got)
	}
}

func TestRecordRound(t *testing.T) {
	l := newTestLogger(t)
	impl := arena.Implementation{
		Code:     "def f(): pass\n",
		Language: arena.Python,
		Version:  2,
		Notes:    "clean enough",
	}
	if err := l.RecordRound(2, impl); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}

	if got := readArtifact(t, l, "round_2/implementation_v2.py"); got != impl.Code {
		t.Errorf("implementation = %q", got)
	}
	if got := readArtifact(t, l, "round_2/notes.md"); got != impl.Notes {
		t.Errorf("notes = %q", got)
	}
}

func sampleEvaluation() *judge.CompetitiveEvaluation {
	return &judge.CompetitiveEvaluation{
		PythonScores: []judge.DimensionScore{
			{Dimension: judge.Readability, Score: 8.0, Reasoning: "clear"},
		},
		TypeScriptScores: []judge.DimensionScore{
			{Dimension: judge.Readability, Score: 7.0, Reasoning: "verbose"},
		},
		PythonTotal:     8.0,
		TypeScriptTotal: 7.0,
		Winner:          judge.WinnerPython,
		PythonSnark:     "at least we do not need a build step",
		TypeScriptSnark: "enjoy your runtime type errors",
		Summary:         "Python wins 8.0 to 7.0.",
	}
}

func TestRecordEvaluation(t *testing.T) {
	l := newTestLogger(t)
	if err := l.RecordEvaluation(sampleEvaluation()); err != nil {
		t.Fatalf("RecordEvaluation: %v", err)
	}

	var report evaluationReport
	if err := json.Unmarshal([]byte(readArtifact(t, l, "evaluation_report.json")), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.Winner != judge.WinnerPython {
		t.Errorf("report winner = %q", report.Summary.Winner)
	}
	if len(report.PythonEvaluations) != 1 || report.PythonEvaluations[0].Score != 8.0 {
		t.Errorf("python evaluations = %+v", report.PythonEvaluations)
	}

	if got := readArtifact(t, l, "evaluation_summary.txt"); got != "Python wins 8.0 to 7.0." {
		t.Errorf("summary = %q", got)
	}
	snark := readArtifact(t, l, "snark.md")
	if !strings.Contains(snark, "build step") || !strings.Contains(snark, "runtime type errors") {
		t.Errorf("snark.md missing commentary: %q", snark)
	}
}

func completedSession() *arena.CompletedSession {
	return &arena.CompletedSession{
		Session: &arena.Session{
			ID:               "abc-123",
			OriginalCode:     "def f(): pass\n",
			OriginalLanguage: arena.Python,
			TypeScriptImplementations: []arena.Implementation{
				{Code: "export {}\n", Language: arena.TypeScript, Version: 1},
			},
			PythonImplementations: []arena.Implementation{
				{Code: "def g(): pass\n", Language: arena.Python, Version: 2},
			},
			CreatedAt: testTime,
		},
		Evaluation:  sampleEvaluation(),
		CompletedAt: testTime.Add(5 * time.Minute),
	}
}

func TestSaveComplete(t *testing.T) {
	l := newTestLogger(t)
	done := completedSession()

	if err := l.SaveComplete(done); err != nil {
		t.Fatalf("SaveComplete: %v", err)
	}

	if got := readArtifact(t, l, "01_original.py"); got != done.Session.OriginalCode {
		t.Errorf("original = %q", got)
	}
	if got := readArtifact(t, l, "02_python_v2.py"); got != "def g(): pass\n" {
		t.Errorf("python final = %q", got)
	}
	if got := readArtifact(t, l, "02_typescript_v1.ts"); got != "export {}\n" {
		t.Errorf("typescript final = %q", got)
	}

	var meta sessionMetadata
	if err := json.Unmarshal([]byte(readArtifact(t, l, "session_metadata.json")), &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.SessionID != "abc-123" || meta.RoundsCompleted != 2 || meta.Winner != judge.WinnerPython {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestRecordSummary(t *testing.T) {
	l := newTestLogger(t)
	done := completedSession()

	if err := l.RecordSummary(done.Session, done.Evaluation); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	summary := readArtifact(t, l, "SUMMARY.md")
	for _, want := range []string{"abc-123", "python", "8.0/10", "7.0/10"} {
		if !strings.Contains(summary, want) {
			t.Errorf("SUMMARY.md missing %q", want)
		}
	}
}

func TestSaveImagePromptsEmpty(t *testing.T) {
	l := newTestLogger(t)
	if err := l.SaveImagePrompts(nil); err != nil {
		t.Fatalf("SaveImagePrompts(nil): %v", err)
	}
	if _, err := os.Stat(filepath.Join(l.Dir(), "image_prompts.json")); !os.IsNotExist(err) {
		t.Fatal("image_prompts.json written for empty map")
	}
}

type fakeMirror struct {
	puts map[string][]byte
	err  error
}

func (m *fakeMirror) Put(ctx context.Context, sessionID, path string, content []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.puts == nil {
		m.puts = map[string][]byte{}
	}
	m.puts[sessionID+"/"+path] = append([]byte(nil), content...)
	return nil
}

func TestLoggerMirrors(t *testing.T) {
	l := newTestLogger(t)
	mirror := &fakeMirror{}
	l.Mirror = mirror
	l.SetSessionID("abc-123")

	impl := arena.Implementation{Code: "x", Language: arena.TypeScript, Version: 1}
	if err := l.RecordRound(1, impl); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}
	if _, ok := mirror.puts["abc-123/round_1/implementation_v1.ts"]; !ok {
		t.Fatalf("mirror keys = %v", mirror.puts)
	}
}

func TestLoggerMirrorFailureNonFatal(t *testing.T) {
	l := newTestLogger(t)
	l.Mirror = &fakeMirror{err: errors.New("bucket gone")}

	impl := arena.Implementation{Code: "x", Language: arena.Python, Version: 1}
	if err := l.RecordRound(1, impl); err != nil {
		t.Fatalf("RecordRound should ignore mirror failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(l.Dir(), "round_1", "implementation_v1.py")); err != nil {
		t.Fatalf("local artifact missing: %v", err)
	}
}
