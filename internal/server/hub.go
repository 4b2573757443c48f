package server

import (
	"context"
	"sync"
	"time"
)

// Event is one progress update from a running competition.
type Event struct {
	Type  string    `json:"type"`
	RunID string    `json:"runId"`
	Agent string    `json:"agent,omitempty"`
	Text  string    `json:"text,omitempty"`
	Time  time.Time `json:"time"`
}

// Hub fans progress events out to websocket subscribers, keyed by run ID.
// Slow subscribers drop their oldest pending event instead of blocking the
// publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers for a run's events until ctx is cancelled.
func (h *Hub) Subscribe(ctx context.Context, runID string) <-chan Event {
	ch := make(chan Event, 32)
	h.mu.Lock()
	if h.subs[runID] == nil {
		h.subs[runID] = make(map[chan Event]struct{})
	}
	h.subs[runID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		if set, ok := h.subs[runID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, runID)
			}
		}
		h.mu.Unlock()
	}()
	return ch
}

// Publish delivers an event to every subscriber of its run.
func (h *Hub) Publish(evt Event) {
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[evt.RunID] {
		select {
		case ch <- evt:
			continue
		default:
		}
		// Full buffer: drop the oldest event, then retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- evt:
		default:
		}
	}
}
