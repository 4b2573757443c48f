package judge

import (
	"context"
	"fmt"

	"gaccia/internal/llm"
	"gaccia/internal/prompt"
)

// SnarkGenerator produces an over-the-top roast of the competing language's
// code. Purely decorative: its output never influences the winner.
type SnarkGenerator struct {
	LLM llm.TextClient
	// Language is the roaster's allegiance ("python" or "typescript").
	Language string
}

func (s *SnarkGenerator) other() string {
	if s.Language == "python" {
		return "TypeScript"
	}
	return "Python"
}

func (s *SnarkGenerator) persona() string {
	if s.Language == "python" {
		return "You are an EXTREMELY OPINIONATED Python developer who despises TypeScript. " +
			"You think TypeScript developers are overengineering masochists who need 47 build tools " +
			"to say hello world, and that TypeScript is basically JavaScript with commitment issues. " +
			"Roast the type-checking obsession, the npm dependency hell, and the webpack configs."
	}
	return "You are an EXTREMELY OPINIONATED TypeScript developer who despises Python. " +
		"You think Python developers are cowboys writing fragile code held together by hope, " +
		"with an 'it works on my machine' culture and runtime explosions. " +
		"Roast the GIL, the duck-typing disasters, and whitespace-as-syntax."
}

// Generate returns a short roast of the other language's code given a quality
// summary of it.
func (s *SnarkGenerator) Generate(ctx context.Context, code, evaluationSummary string) (string, error) {
	snippet := code
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	p, err := prompt.Render(prompt.Spec{
		Persona: s.persona(),
		Task:    fmt.Sprintf("Roast this %s code from a %s supremacist's perspective.", s.other(), s.Language),
		Context: []string{"Quality summary: " + evaluationSummary},
		Code:    []prompt.CodeBlock{{Language: s.other(), Code: snippet}},
		Guidelines: []string{
			"Be hilariously dramatic and unforgivingly petty, but stay programming-focused.",
			"Keep it under 3 sentences and make every word count.",
		},
		OutputFormat: "The roast only.",
	})
	if err != nil {
		return "", err
	}
	out, err := s.LLM.GenerateText(llm.WithAgent(ctx, "snark-"+s.Language), p)
	if err != nil {
		return "", fmt.Errorf("snark (%s): %w", s.Language, err)
	}
	return out, nil
}
