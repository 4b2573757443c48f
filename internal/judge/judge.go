package judge

import (
	"context"
	"fmt"
	"strings"

	"gaccia/internal/llm"
	"gaccia/internal/prompt"
)

// Judge scores one implementation on one dimension from one language's
// perspective.
type Judge struct {
	LLM       llm.TextClient
	Dimension Dimension
	// Language is the judge's home-turf perspective ("python" or "typescript").
	Language string
}

func (j *Judge) agent() string {
	dim := strings.ToLower(string(j.Dimension))
	dim = strings.NewReplacer(" ", "-", "&", "and").Replace(dim)
	return "judge-" + dim + "-" + j.Language
}

func (j *Judge) persona() string {
	perspective := "Python"
	if j.Language == "typescript" {
		perspective = "TypeScript"
	}
	base := fmt.Sprintf("You are a %s %s Judge. ", perspective, j.Dimension)
	switch j.Dimension {
	case Readability:
		return base + "You evaluate how readable and understandable code is: clear names, " +
			"logical organization, appropriate idioms, good documentation, intuitive flow. " +
			"You are passionate about " + perspective + "'s approach to readability."
	case Maintainability:
		return base + "You evaluate how maintainable and extensible code is: modular design, " +
			"separation of concerns, error handling, testability, reusability, clear abstractions."
	case LatestTools:
		tools := "uv, ruff, mypy, pytest"
		if perspective == "TypeScript" {
			tools = "Vite, TypeScript 5.0+, Vitest, ESLint"
		}
		return base + "You evaluate use of modern tooling and practices (" + tools + "), " +
			"current language features, and up-to-date patterns; you can spot outdated idioms instantly."
	case DocsEnjoyability:
		return base + "You evaluate how enjoyable and helpful the documentation is: clear " +
			"explanations, good examples, helpful comments and docstrings, appropriate personality."
	case SecurityPerformance:
		return base + "You evaluate security and performance: input validation, error handling, " +
			"resource management, algorithm efficiency, dependency hygiene."
	default:
		return base
	}
}

// Evaluate scores code on this judge's dimension. A response without a
// parseable score degrades to DefaultScore instead of failing; the
// substitution is noted in the returned Reasoning.
func (j *Judge) Evaluate(ctx context.Context, code, language string) (DimensionScore, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: j.persona(),
		Task:    fmt.Sprintf("Evaluate this %s code on %s.", language, j.Dimension),
		Code:    []prompt.CodeBlock{{Language: language, Code: code}},
		Guidelines: []string{
			"Rate on a 0-10 scale: 0-3 poor, 4-6 has issues, 7-8 good with minor issues, 9-10 exemplary.",
		},
		OutputFormat: "Exactly this layout:\n" +
			"Score: [0-10]\n" +
			"Reasoning: [detailed reasoning]\n" +
			"Strengths: [2-3 bullet items]\n" +
			"Weaknesses: [2-3 bullet items]\n" +
			"Suggestions: [2-3 bullet items]",
	})
	if err != nil {
		return DimensionScore{}, err
	}

	resp, err := j.LLM.GenerateText(llm.WithAgent(ctx, j.agent()), p)
	if err != nil {
		return DimensionScore{}, fmt.Errorf("judge %s (%s): %w", j.Dimension, language, err)
	}

	reasoning := resp
	score, perr := parseScore(resp)
	if perr != nil {
		score = DefaultScore
		reasoning = fmt.Sprintf("[no parseable score; defaulted to %.1f]\n%s", DefaultScore, resp)
	}

	return DimensionScore{
		Dimension:   j.Dimension,
		Score:       score,
		Reasoning:   reasoning,
		Strengths:   parseList(resp, "Strengths"),
		Weaknesses:  parseList(resp, "Weaknesses"),
		Suggestions: parseList(resp, "Suggestions"),
	}, nil
}
