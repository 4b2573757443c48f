// Package imagery turns competition milestones into image-generation prompts.
// It only produces prompt text; rendering is left to whatever image backend
// the caller points the prompts at.
package imagery

import (
	"context"
	"fmt"

	"gaccia/internal/judge"
	"gaccia/internal/llm"
	"gaccia/internal/prompt"
)

const agentPersona = "You are the Image Prompt Agent for a competitive coding battle. " +
	"You create detailed prompts for image generation that capture the essence of code " +
	"battles between Python and TypeScript, visual representations of quality scores, " +
	"and humorous interpretations of programming language competition. Your prompts are " +
	"creative, technically aware, and entertaining."

// Agent generates image prompts for battle milestones.
type Agent struct {
	LLM llm.TextClient
}

func (a *Agent) generate(ctx context.Context, task string, details []string) (string, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: agentPersona,
		Task:    task,
		Context: details,
		Guidelines: []string{
			"Be epic and dramatic, like a sports competition.",
			"Include visual metaphors for Python and TypeScript.",
			"Keep it suitable for a technical audience.",
		},
		OutputFormat: "Return only the image generation prompt, nothing else.",
	})
	if err != nil {
		return "", err
	}
	return a.LLM.GenerateText(llm.WithAgent(ctx, "image-prompt"), p)
}

// BattlePrompt describes the opening of a battle.
func (a *Agent) BattlePrompt(ctx context.Context, startingLanguage string, rounds int) (string, error) {
	return a.generate(ctx,
		"Create an image generation prompt announcing this coding battle.",
		[]string{fmt.Sprintf("Epic coding battle starting! %s vs the world, %d rounds of competitive programming.",
			startingLanguage, rounds)})
}

// RoundPrompt describes one round's outcome.
func (a *Agent) RoundPrompt(ctx context.Context, roundNum int, targetLanguage string) (string, error) {
	return a.generate(ctx,
		"Create an image generation prompt for the completion of one battle round.",
		[]string{fmt.Sprintf("Round %d complete: a fresh %s implementation has entered the arena.",
			roundNum, targetLanguage)})
}

// ScorecardPrompt visualizes the final verdict as a scoreboard.
func (a *Agent) ScorecardPrompt(ctx context.Context, ev *judge.CompetitiveEvaluation) (string, error) {
	return a.generate(ctx,
		"Create an image generation prompt for a visual scorecard of the final result.",
		[]string{
			fmt.Sprintf("Python: %.1f/10", ev.PythonTotal),
			fmt.Sprintf("TypeScript: %.1f/10", ev.TypeScriptTotal),
			fmt.Sprintf("Winner: %s", ev.Winner),
			"Style should be like a sports scoreboard or gaming leaderboard.",
		})
}

// SessionPrompts produces the full prompt set for a finished session, keyed by
// milestone name. A failure on one milestone aborts; partial maps are not
// returned.
func (a *Agent) SessionPrompts(ctx context.Context, startingLanguage string, rounds int, ev *judge.CompetitiveEvaluation) (map[string]string, error) {
	out := make(map[string]string, rounds+2)

	battle, err := a.BattlePrompt(ctx, startingLanguage, rounds)
	if err != nil {
		return nil, fmt.Errorf("battle prompt: %w", err)
	}
	out["battle_start"] = battle

	target := startingLanguage
	for r := 1; r <= rounds; r++ {
		target = otherLanguage(target)
		roundPrompt, err := a.RoundPrompt(ctx, r, target)
		if err != nil {
			return nil, fmt.Errorf("round %d prompt: %w", r, err)
		}
		out[fmt.Sprintf("round_%d", r)] = roundPrompt
	}

	scorecard, err := a.ScorecardPrompt(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("scorecard prompt: %w", err)
	}
	out["scorecard"] = scorecard
	return out, nil
}

func otherLanguage(lang string) string {
	if lang == "python" {
		return "typescript"
	}
	return "python"
}
