package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Handler exposes the HTTP surface: start/inspect runs, list sessions, and a
// websocket progress stream.
type Handler struct {
	svc *Service
	hub *Hub
}

func NewHandler(svc *Service, hub *Hub) *Handler {
	return &Handler{svc: svc, hub: hub}
}

// Mux returns the route table.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/competitions", h.handleStart)
	mux.HandleFunc("GET /api/competitions/{id}", h.handleGet)
	mux.HandleFunc("GET /api/sessions", h.handleSessions)
	mux.HandleFunc("GET /api/sessions/{id}/artifacts", h.handleArtifacts)
	mux.HandleFunc("GET /api/sessions/{id}/artifacts/{path...}", h.handleArtifactURL)
	mux.HandleFunc("GET /ws/progress", h.handleProgressWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	runID, err := h.svc.Start(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	run, ok := h.svc.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Sessions())
}

func (h *Handler) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	paths, err := h.svc.Artifacts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, artifactStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"paths": paths})
}

func (h *Handler) handleArtifactURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.ArtifactURL(r.Context(), r.PathValue("id"), r.PathValue("path"))
	if err != nil {
		writeError(w, artifactStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func artifactStatus(err error) int {
	if errors.Is(err, ErrMirrorDisabled) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// handleProgressWS streams a run's progress events until the client goes away.
func (h *Handler) handleProgressWS(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	events := h.hub.Subscribe(ctx, runID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-events:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Drain inbound frames; the read deadline enforces the pong keepalive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}
