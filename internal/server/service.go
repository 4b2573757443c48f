package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gaccia/internal/arena"
	"gaccia/internal/llm"
	"gaccia/internal/results"
	"gaccia/internal/sessionstore"
)

// ErrMirrorDisabled is returned by artifact lookups when no object-storage
// mirror is configured.
var ErrMirrorDisabled = errors.New("artifact mirror is not configured")

// ArtifactMirror replicates every written artifact to object storage and
// serves it back over the API. *results.S3Mirror satisfies it.
type ArtifactMirror interface {
	results.Mirror
	List(ctx context.Context, sessionID string) ([]string, error)
	GetURL(ctx context.Context, sessionID, path string) (string, error)
}

// RunStatus tracks a competition run through its lifetime.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is the externally visible state of one competition run.
type Run struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Status          RunStatus      `json:"status"`
	Language        arena.Language `json:"language"`
	Rounds          int            `json:"rounds"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	Winner          string         `json:"winner,omitempty"`
	PythonScore     float64        `json:"python_score,omitempty"`
	TypeScriptScore float64        `json:"typescript_score,omitempty"`
	ResultsDir      string         `json:"results_dir,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// StartRequest asks for a new competition run.
type StartRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Rounds   int    `json:"rounds"`
	Name     string `json:"name"`
}

// Service starts competitions in the background and tracks their state.
type Service struct {
	cli         llm.TextClient
	store       *sessionstore.Store
	hub         *Hub
	resultsRoot string

	// NewID generates run identifiers. Injectable for tests.
	NewID func() string
	// Log receives run lifecycle messages. Defaults to log.Default().
	Log *log.Logger
	// Mirror optionally replicates run artifacts to object storage and backs
	// the artifact endpoints. Nil disables both.
	Mirror ArtifactMirror

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewService wires a service around the given client. store may be nil to
// disable the session ledger. The client is wrapped so progress hooks fire on
// every request.
func NewService(cli llm.TextClient, store *sessionstore.Store, hub *Hub, resultsRoot string) *Service {
	return &Service{
		cli:         llm.Wrap(cli, llm.WithHooks()),
		store:       store,
		hub:         hub,
		resultsRoot: resultsRoot,
		NewID:       uuid.NewString,
		Log:         log.Default(),
		runs:        make(map[string]*Run),
	}
}

// Start validates the request and launches the run in the background,
// returning its run ID immediately.
func (s *Service) Start(req StartRequest) (string, error) {
	if strings.TrimSpace(req.Code) == "" {
		return "", fmt.Errorf("code is required")
	}
	language, err := arena.ParseLanguage(req.Language)
	if err != nil {
		return "", err
	}
	rounds := req.Rounds
	if rounds == 0 {
		rounds = 2
	}
	if rounds < 1 {
		return "", fmt.Errorf("rounds must be >= 1, got %d", rounds)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "session"
	}

	run := &Run{
		ID:        s.NewID(),
		Name:      name,
		Status:    RunRunning,
		Language:  language,
		Rounds:    rounds,
		StartedAt: time.Now(),
	}
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	go s.execute(run.ID, req.Code, language, rounds, name)
	return run.ID, nil
}

func (s *Service) execute(runID, code string, language arena.Language, rounds int, name string) {
	ctx := llm.WithPromptHook(context.Background(), &progressHook{hub: s.hub, runID: runID})

	logger, err := results.NewLogger(s.resultsRoot, name, time.Now())
	if err != nil {
		s.finishFailed(runID, err)
		return
	}
	logger.SetSessionID(runID)
	logger.Log = s.Log
	if s.Mirror != nil {
		logger.Mirror = s.Mirror
	}

	comp := arena.NewCompetition(s.cli)
	comp.Log = s.Log
	comp.Orchestrator.Log = s.Log
	comp.Evaluator.Log = s.Log

	s.hub.Publish(Event{Type: "run_started", RunID: runID})
	done, err := comp.Run(ctx, code, language, rounds, logger)
	if err != nil {
		s.finishFailed(runID, err)
		return
	}
	if err := logger.SaveComplete(done); err != nil {
		s.Log.Printf("run %s: save results failed (continuing): %v", runID, err)
	}
	s.store.Put(sessionstore.FromCompleted(done, name, logger.Dir()))

	s.mu.Lock()
	if run, ok := s.runs[runID]; ok {
		run.Status = RunCompleted
		run.FinishedAt = time.Now()
		run.Winner = string(done.Evaluation.Winner)
		run.PythonScore = done.Evaluation.PythonTotal
		run.TypeScriptScore = done.Evaluation.TypeScriptTotal
		run.ResultsDir = logger.Dir()
	}
	s.mu.Unlock()
	s.hub.Publish(Event{
		Type:  "run_completed",
		RunID: runID,
		Text:  fmt.Sprintf("winner: %s", done.Evaluation.Winner),
	})
	s.Log.Printf("run %s completed: winner=%s", runID, done.Evaluation.Winner)
}

func (s *Service) finishFailed(runID string, cause error) {
	s.mu.Lock()
	if run, ok := s.runs[runID]; ok {
		run.Status = RunFailed
		run.FinishedAt = time.Now()
		run.Error = cause.Error()
	}
	s.mu.Unlock()
	s.hub.Publish(Event{Type: "run_failed", RunID: runID, Text: cause.Error()})
	s.Log.Printf("run %s failed: %v", runID, cause)
}

// Get returns a snapshot of one run.
func (s *Service) Get(runID string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// Sessions lists the stored session ledger, most recent first.
func (s *Service) Sessions() []sessionstore.Record {
	return s.store.List()
}

// Artifacts lists the mirrored artifact paths for a session.
func (s *Service) Artifacts(ctx context.Context, sessionID string) ([]string, error) {
	if s.Mirror == nil {
		return nil, ErrMirrorDisabled
	}
	return s.Mirror.List(ctx, sessionID)
}

// ArtifactURL returns a time-limited download URL for one mirrored artifact.
func (s *Service) ArtifactURL(ctx context.Context, sessionID, path string) (string, error) {
	if s.Mirror == nil {
		return "", ErrMirrorDisabled
	}
	return s.Mirror.GetURL(ctx, sessionID, path)
}
