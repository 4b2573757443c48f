package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gaccia/internal/llm"
	"gaccia/internal/sessionstore"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := hub.Subscribe(ctx, "run-1")
	hub.Publish(Event{Type: "step_started", RunID: "run-1"})
	hub.Publish(Event{Type: "step_started", RunID: "other-run"})

	select {
	case evt := <-events:
		if evt.Type != "step_started" || evt.RunID != "run-1" {
			t.Fatalf("event = %+v", evt)
		}
		if evt.Time.IsZero() {
			t.Fatal("publish did not stamp time")
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	select {
	case evt := <-events:
		t.Fatalf("received foreign event: %+v", evt)
	default:
	}
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := hub.Subscribe(ctx, "run-1")
	for i := 0; i < 40; i++ {
		hub.Publish(Event{Type: "step_started", RunID: "run-1"})
	}
	// The publisher must never have blocked; the channel holds at most its
	// buffer worth of events.
	n := 0
	for {
		select {
		case <-events:
			n++
			continue
		default:
		}
		break
	}
	if n == 0 || n > 32 {
		t.Fatalf("drained %d events", n)
	}
}

func newTestService(t *testing.T) (*Service, *llm.FakeClient) {
	t.Helper()
	fake := llm.NewFakeClient(0)
	dir := t.TempDir()
	store := sessionstore.New(filepath.Join(dir, "sessions.json"))
	svc := NewService(fake, store, NewHub(), filepath.Join(dir, "results"))
	svc.Log = log.New(io.Discard, "", 0)
	return svc, fake
}

func TestServiceStartValidation(t *testing.T) {
	svc, fake := newTestService(t)

	if _, err := svc.Start(StartRequest{Language: "python"}); err == nil {
		t.Error("empty code accepted")
	}
	if _, err := svc.Start(StartRequest{Code: "x", Language: "rust"}); err == nil {
		t.Error("invalid language accepted")
	}
	if _, err := svc.Start(StartRequest{Code: "x", Language: "python", Rounds: -1}); err == nil {
		t.Error("negative rounds accepted")
	}
	if got := fake.CallCount(); got != 0 {
		t.Fatalf("client calls = %d, want 0", got)
	}
}

func waitForRun(t *testing.T, svc *Service, runID string) Run {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		run, ok := svc.Get(runID)
		if !ok {
			t.Fatalf("run %s vanished", runID)
		}
		if run.Status != RunRunning {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run %s did not finish", runID)
	return Run{}
}

func TestServiceRunCompletes(t *testing.T) {
	svc, _ := newTestService(t)

	runID, err := svc.Start(StartRequest{Code: "def f(): pass", Language: "python", Rounds: 2, Name: "demo"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	run := waitForRun(t, svc, runID)
	if run.Status != RunCompleted {
		t.Fatalf("run = %+v", run)
	}
	if run.Winner != "tie" {
		t.Errorf("winner = %q, want tie (fake scores both sides equally)", run.Winner)
	}
	if run.ResultsDir == "" {
		t.Error("results dir not recorded")
	}

	sessions := svc.Sessions()
	if len(sessions) != 1 || sessions[0].Name != "demo" {
		t.Errorf("sessions = %+v", sessions)
	}
}

// fakeArtifactMirror records uploads per session and hands out stable URLs.
type fakeArtifactMirror struct {
	mu   sync.Mutex
	objs map[string][]string
}

func newFakeArtifactMirror() *fakeArtifactMirror {
	return &fakeArtifactMirror{objs: make(map[string][]string)}
}

func (m *fakeArtifactMirror) Put(_ context.Context, sessionID, path string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objs[sessionID] = append(m.objs[sessionID], path)
	return nil
}

func (m *fakeArtifactMirror) List(_ context.Context, sessionID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.objs[sessionID]...), nil
}

func (m *fakeArtifactMirror) GetURL(_ context.Context, sessionID, path string) (string, error) {
	return "https://mirror.test/" + sessionID + "/" + path, nil
}

func TestServiceRunMirrorsArtifacts(t *testing.T) {
	svc, _ := newTestService(t)
	mirror := newFakeArtifactMirror()
	svc.Mirror = mirror

	runID, err := svc.Start(StartRequest{Code: "def f(): pass", Language: "python", Rounds: 2, Name: "demo"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	run := waitForRun(t, svc, runID)
	if run.Status != RunCompleted {
		t.Fatalf("run = %+v", run)
	}

	paths, err := mirror.List(context.Background(), runID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, want := range []string{
		"round_1/implementation_v1.ts",
		"evaluation_report.json",
		"SUMMARY.md",
		"session_metadata.json",
	} {
		found := false
		for _, p := range paths {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("mirror missing %s (have %v)", want, paths)
		}
	}
}

func TestServiceRunFailure(t *testing.T) {
	svc, _ := newTestService(t)

	// One round leaves the original side without an implementation.
	runID, err := svc.Start(StartRequest{Code: "def f(): pass", Language: "python", Rounds: 1})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	run := waitForRun(t, svc, runID)
	if run.Status != RunFailed || run.Error == "" {
		t.Fatalf("run = %+v", run)
	}
}

func TestHandlerEndpoints(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc, NewHub())
	ts := httptest.NewServer(h.Mux())
	defer ts.Close()

	body, _ := json.Marshal(StartRequest{Code: "def f(): pass", Language: "python", Rounds: 2})
	resp, err := http.Post(ts.URL+"/api/competitions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var started map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	runID := started["run_id"]
	if runID == "" {
		t.Fatal("no run_id returned")
	}
	waitForRun(t, svc, runID)

	getResp, err := http.Get(ts.URL + "/api/competitions/" + runID)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer getResp.Body.Close()
	var run Run
	if err := json.NewDecoder(getResp.Body).Decode(&run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.ID != runID || run.Status != RunCompleted {
		t.Errorf("run = %+v", run)
	}

	missing, err := http.Get(ts.URL + "/api/competitions/nope")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d", missing.StatusCode)
	}
}

func TestHandlerArtifactEndpoints(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc, NewHub())
	ts := httptest.NewServer(h.Mux())
	defer ts.Close()

	// Without a mirror the artifact endpoints report not-found.
	resp, err := http.Get(ts.URL + "/api/sessions/abc/artifacts")
	if err != nil {
		t.Fatalf("GET artifacts: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("no-mirror status = %d", resp.StatusCode)
	}

	mirror := newFakeArtifactMirror()
	if err := mirror.Put(context.Background(), "abc", "SUMMARY.md", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	svc.Mirror = mirror

	listResp, err := http.Get(ts.URL + "/api/sessions/abc/artifacts")
	if err != nil {
		t.Fatalf("GET artifacts: %v", err)
	}
	defer listResp.Body.Close()
	var listed map[string][]string
	if err := json.NewDecoder(listResp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode artifacts: %v", err)
	}
	if got := listed["paths"]; len(got) != 1 || got[0] != "SUMMARY.md" {
		t.Errorf("paths = %v", got)
	}

	urlResp, err := http.Get(ts.URL + "/api/sessions/abc/artifacts/SUMMARY.md")
	if err != nil {
		t.Fatalf("GET artifact url: %v", err)
	}
	defer urlResp.Body.Close()
	var link map[string]string
	if err := json.NewDecoder(urlResp.Body).Decode(&link); err != nil {
		t.Fatalf("decode url: %v", err)
	}
	if link["url"] != "https://mirror.test/abc/SUMMARY.md" {
		t.Errorf("url = %q", link["url"])
	}
}

func TestServerStartShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := New("127.0.0.1:0", mux)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	var addr string
	deadline := time.Now().Add(5 * time.Second)
	for addr == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind")
		}
		addr = srv.Addr()
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start returned %v", err)
	}
}
