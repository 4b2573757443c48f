package arena

import (
	"context"
	"fmt"

	"gaccia/internal/llm"
	"gaccia/internal/prompt"
)

func architectPersona(lang Language) string {
	if lang == Python {
		return "You are the Python Architect: a Python expert and advocate. " +
			"You know modern Python (3.11+), type hints and mypy, uv/Poetry, FastAPI, Pydantic, asyncio, " +
			"pytest, and quality tooling (black, ruff). You emphasize Pythonic idioms, readability, and " +
			"maintainability, and you occasionally make gentle jabs at TypeScript's complexity."
	}
	return "You are the TypeScript Architect: a TypeScript expert and advocate. " +
		"You know modern TypeScript (5.0+), its advanced type system, the Node.js ecosystem, " +
		"Vitest/Jest, and build tooling (Vite, esbuild). You emphasize type safety, developer " +
		"experience, and modern patterns, and you occasionally highlight Python's runtime limitations."
}

func coderPersona(lang Language) string {
	if lang == Python {
		return "You are the Python Coder: you implement clean, working Python code " +
			"with proper type hints, docstrings, and modern conventions, following the architect's plan."
	}
	return "You are the TypeScript Coder: you implement robust, type-safe TypeScript code " +
		"with proper interfaces and TSDoc comments, following the architect's plan."
}

const polyglotPersona = "You are the Polyglot Architect: an expert in cross-language conversion. " +
	"You identify equivalent patterns across languages, spot conversion gotchas, and recommend " +
	"library mappings. You are language-agnostic and focus on expressing the original intent " +
	"in the target language."

// Architect is a single-language domain expert. It analyzes source code,
// plans implementations, and reviews the produced code.
type Architect struct {
	LLM  llm.TextClient
	Lang Language
}

func (a *Architect) agent() string { return a.Lang.String() + "-architect" }

// AnalyzeCode analyzes code (in any language) from this architect's perspective.
func (a *Architect) AnalyzeCode(ctx context.Context, code string, lang Language) (string, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: architectPersona(a.Lang),
		Task:    fmt.Sprintf("Analyze this %s code from your perspective.", lang),
		Code:    []prompt.CodeBlock{{Language: lang.String(), Code: code}},
		Guidelines: []string{
			"Describe what the code does.",
			"Assess its complexity.",
			"List the main features and patterns.",
			"List what could be improved.",
		},
		OutputFormat: "Prose with short labeled sections: Description, Complexity, Key Features, Potential Issues.",
	})
	if err != nil {
		return "", err
	}
	return a.LLM.GenerateText(llm.WithAgent(ctx, a.agent()), p)
}

// PlanImplementation plans a target-language implementation from the analysis
// and the polyglot conversion plan.
func (a *Architect) PlanImplementation(ctx context.Context, analysis, conversionPlan string) (string, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: architectPersona(a.Lang),
		Task:    fmt.Sprintf("Plan a %s implementation that showcases the language's strengths.", a.Lang.Title()),
		Context: []string{
			"Code analysis: " + analysis,
			"Conversion plan: " + conversionPlan,
		},
		Guidelines: []string{
			"Produce a detailed implementation plan, not code.",
			"Focus on clean, idiomatic, maintainable design using modern practices.",
		},
		OutputFormat: "A numbered implementation plan.",
	})
	if err != nil {
		return "", err
	}
	return a.LLM.GenerateText(llm.WithAgent(ctx, a.agent()), p)
}

// ReviewImplementation reviews code written in this architect's language.
func (a *Architect) ReviewImplementation(ctx context.Context, code string) (string, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: architectPersona(a.Lang),
		Task:    fmt.Sprintf("Review this %s implementation.", a.Lang.Title()),
		Code:    []prompt.CodeBlock{{Language: a.Lang.String(), Code: code}},
		Guidelines: []string{
			"Comment on code quality and idiomatic style.",
			"Point out potential improvements.",
			"Note performance and maintainability considerations.",
		},
		OutputFormat: "Review prose.",
	})
	if err != nil {
		return "", err
	}
	return a.LLM.GenerateText(llm.WithAgent(ctx, a.agent()), p)
}

// PolyglotArchitect plans and validates conversions between the two languages.
type PolyglotArchitect struct {
	LLM llm.TextClient
}

// CreateConversionPlan produces a strategy for converting analyzed code to the
// target language.
func (pa *PolyglotArchitect) CreateConversionPlan(ctx context.Context, analysis string, source, target Language) (string, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: polyglotPersona,
		Task:    fmt.Sprintf("Create a plan for converting %s code to %s.", source.Title(), target.Title()),
		Context: []string{"Analysis of the original code: " + analysis},
		Guidelines: []string{
			"State the conversion strategy.",
			"List potential gotchas.",
			"Recommend target-language patterns.",
			"Map libraries where needed.",
		},
		OutputFormat: "Prose with short labeled sections: Strategy, Gotchas, Patterns, Library Mappings.",
	})
	if err != nil {
		return "", err
	}
	return pa.LLM.GenerateText(llm.WithAgent(ctx, "polyglot-architect"), p)
}

// ReviewConversion checks how well a conversion preserved the original intent.
func (pa *PolyglotArchitect) ReviewConversion(ctx context.Context, originalCode, convertedCode string, source, target Language) (string, error) {
	p, err := prompt.Render(prompt.Spec{
		Persona: polyglotPersona,
		Task:    "Review this code conversion.",
		Code: []prompt.CodeBlock{
			{Label: fmt.Sprintf("Original (%s)", source), Language: source.String(), Code: originalCode},
			{Label: fmt.Sprintf("Converted (%s)", target), Language: target.String(), Code: convertedCode},
		},
		Guidelines: []string{
			"Does the conversion maintain the original functionality?",
			"Does it follow target-language best practices?",
			"Are there conversion issues?",
			"Suggest improvements.",
		},
		OutputFormat: "Review prose.",
	})
	if err != nil {
		return "", err
	}
	return pa.LLM.GenerateText(llm.WithAgent(ctx, "polyglot-architect"), p)
}

// Coder implements code in one language from an architect's plan.
type Coder struct {
	LLM  llm.TextClient
	Lang Language
}

func (c *Coder) agent() string { return c.Lang.String() + "-coder" }

// ImplementCode produces code from the plan, with the pre-conversion source as
// reference.
func (c *Coder) ImplementCode(ctx context.Context, plan, referenceCode string) (string, error) {
	spec := prompt.Spec{
		Persona: coderPersona(c.Lang),
		Task:    fmt.Sprintf("Implement %s code following this plan.", c.Lang.Title()),
		Context: []string{"Implementation plan: " + plan},
		Guidelines: []string{
			"Return only the code, no explanations.",
			"Use good names, documentation comments, and modern conventions.",
		},
		OutputFormat: fmt.Sprintf("Only %s source code.", c.Lang.Title()),
	}
	if referenceCode != "" {
		spec.Code = []prompt.CodeBlock{{Label: "Reference (pre-conversion source)", Language: c.Lang.Other().String(), Code: referenceCode}}
	}
	p, err := prompt.Render(spec)
	if err != nil {
		return "", err
	}
	return c.LLM.GenerateText(llm.WithAgent(ctx, c.agent()), p)
}
