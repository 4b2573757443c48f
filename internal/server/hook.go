package server

import (
	"context"
	"fmt"
	"time"
)

// progressHook publishes one event per LLM request so websocket clients can
// watch the battle step by step. Prompts and responses are summarized, not
// forwarded verbatim.
type progressHook struct {
	hub   *Hub
	runID string
}

func (p *progressHook) Before(ctx context.Context, agent, prompt string) {
	p.hub.Publish(Event{
		Type:  "step_started",
		RunID: p.runID,
		Agent: agent,
		Text:  fmt.Sprintf("%d byte prompt", len(prompt)),
		Time:  time.Now(),
	})
}

func (p *progressHook) After(ctx context.Context, agent, response string, err error) {
	evt := Event{
		Type:  "step_finished",
		RunID: p.runID,
		Agent: agent,
		Text:  fmt.Sprintf("%d byte response", len(response)),
		Time:  time.Now(),
	}
	if err != nil {
		evt.Type = "step_failed"
		evt.Text = err.Error()
	}
	p.hub.Publish(evt)
}
