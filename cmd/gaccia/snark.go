package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"gaccia/internal/judge"
	"gaccia/internal/llm"
)

type snarkScenario struct {
	code     string
	summary  string
	language string
}

// Sample code snippets and quality summaries so the roasts have material.
var snarkScenarios = []snarkScenario{
	{
		code: `function fibonacci(n: number): number {
    if (n <= 1) return n;
    return fibonacci(n - 1) + fibonacci(n - 2);
}`,
		summary:  "Basic recursive implementation with no optimization",
		language: "typescript",
	},
	{
		code: `def fibonacci(n):
    if n <= 1:
        return n
    return fibonacci(n - 1) + fibonacci(n - 2)`,
		summary:  "Simple recursive approach, no type hints",
		language: "python",
	},
	{
		code: `interface User {
    id: number;
    name: string;
    email?: string;
}

class UserManager {
    private users: User[] = [];

    addUser(user: User): void {
        this.users.push(user);
    }
}`,
		summary:  "Object-oriented design with interfaces and type safety",
		language: "typescript",
	},
	{
		code: `class UserManager:
    def __init__(self):
        self.users = []

    def add_user(self, user):
        self.users.append(user)`,
		summary:  "Duck typing approach with dynamic attributes",
		language: "python",
	},
	{
		code: `const processData = async (data: unknown[]): Promise<string[]> => {
    return data
        .filter((item): item is string => typeof item === 'string')
        .map(item => item.toUpperCase());
};`,
		summary:  "Functional style with type guards and async processing",
		language: "typescript",
	},
	{
		code: `def process_data(data):
    return [item.upper() for item in data if isinstance(item, str)]`,
		summary:  "Pythonic list comprehension with runtime type checking",
		language: "python",
	},
}

// runSnarkBattle generates rounds of pure inter-language roasting, no
// competition attached.
func runSnarkBattle(ctx context.Context, cli llm.TextClient, rounds int) error {
	pythonSnark := &judge.SnarkGenerator{LLM: cli, Language: "python"}
	typescriptSnark := &judge.SnarkGenerator{LLM: cli, Language: "typescript"}

	fmt.Println("SNARK BATTLE ROYALE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Python vs TypeScript")
	fmt.Println(strings.Repeat("=", 60))

	for round := 1; round <= rounds; round++ {
		fmt.Printf("\nROUND %d\n%s\n", round, strings.Repeat("-", 40))
		scenario := snarkScenarios[rand.Intn(len(snarkScenarios))]

		attacker, defender := pythonSnark, typescriptSnark
		counterCode, counterSummary := "def mystery_function(x): return x + 1", "Runtime error waiting to happen"
		if scenario.language == "python" {
			attacker, defender = typescriptSnark, pythonSnark
			counterCode, counterSummary = "TypeScript boilerplate with 47 interfaces", "Over-engineered type gymnastics"
		}

		take, err := attacker.Generate(ctx, scenario.code, scenario.summary)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		fmt.Printf("%s's take: %s\n", languageTitle(attacker.Language), take)

		retort, err := defender.Generate(ctx, counterCode, counterSummary)
		if err != nil {
			return fmt.Errorf("round %d retort: %w", round, err)
		}
		fmt.Printf("%s's retort: %s\n", languageTitle(defender.Language), retort)
	}
	return nil
}

func languageTitle(lang string) string {
	if lang == "python" {
		return "Python"
	}
	return "TypeScript"
}
