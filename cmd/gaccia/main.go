package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gaccia/internal/arena"
	"gaccia/internal/imagery"
	"gaccia/internal/llm"
	"gaccia/internal/results"
	"gaccia/internal/sessionstore"
)

func main() {
	example := flag.String("example", "", "built-in example to run: "+strings.Join(exampleNames(), ", "))
	file := flag.String("file", "", "path to a source file to run instead of an example")
	language := flag.String("language", "python", "language of the input code: python or typescript")
	rounds := flag.Int("rounds", 2, "number of competitive rounds")
	provider := flag.String("provider", "gemini", "LLM provider: gemini, openai, fake")
	model := flag.String("model", "", "model id (provider default when empty)")
	outDir := flag.String("out", "results", "results output directory")
	images := flag.Bool("images", false, "also generate image prompts for battle milestones")
	snark := flag.Int("snark", 0, "skip the competition and generate N rounds of pure snark")
	flag.Parse()

	_ = godotenv.Load()

	cli, err := buildClient(context.Background(), *provider, *model)
	if err != nil {
		log.Fatal(err)
	}
	defer cli.Close()

	if *snark > 0 {
		if err := runSnarkBattle(context.Background(), cli, *snark); err != nil {
			log.Fatal(err)
		}
		return
	}

	lang, err := arena.ParseLanguage(*language)
	if err != nil {
		log.Fatal(err)
	}
	if *rounds < 1 {
		log.Fatalf("rounds must be >= 1, got %d", *rounds)
	}

	code, name, err := loadCode(*example, *file, lang)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := results.NewLogger(*outDir, fmt.Sprintf("%s_%s", name, lang), time.Now())
	if err != nil {
		log.Fatal(err)
	}
	if cfg, ok := results.S3ConfigFromEnv(); ok {
		mirror, err := results.NewS3Mirror(cfg)
		if err != nil {
			log.Fatal(err)
		}
		logger.Mirror = mirror
		log.Printf("mirroring artifacts to bucket %s", cfg.Bucket)
	}

	ctx := context.Background()
	comp := arena.NewCompetition(cli)
	done, err := comp.Run(ctx, code, lang, *rounds, logger)
	if err != nil {
		log.Fatal(err)
	}
	logger.SetSessionID(done.Session.ID)
	if err := logger.SaveComplete(done); err != nil {
		log.Printf("save results failed: %v", err)
	}

	if *images {
		agent := &imagery.Agent{LLM: cli}
		prompts, err := agent.SessionPrompts(ctx, lang.String(), *rounds, done.Evaluation)
		if err != nil {
			log.Printf("image prompts failed: %v", err)
		} else if err := logger.SaveImagePrompts(prompts); err != nil {
			log.Printf("save image prompts failed: %v", err)
		}
	}

	store := sessionstore.NewFromEnv(filepath.Join(*outDir, "sessions.json"))
	store.Put(sessionstore.FromCompleted(done, name, logger.Dir()))
	_ = store.Close()

	printResults(done, logger.Dir())
}

// buildClient assembles the provider client with the shared middleware chain.
func buildClient(ctx context.Context, provider, model string) (llm.TextClient, error) {
	var base llm.TextClient
	switch provider {
	case "fake":
		base = llm.NewFakeClient(0)
	case "gemini":
		if model == "" {
			model = "gemini-2.5-flash"
		}
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		cli, err := llm.NewGeminiClient(ctx, apiKey, model, 0)
		if err != nil {
			return nil, err
		}
		base = cli
	case "openai":
		if model == "" {
			model = "gpt-4o"
		}
		cli, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   model,
		})
		if err != nil {
			return nil, err
		}
		base = cli
	default:
		return nil, fmt.Errorf("unknown provider %q (want gemini, openai, or fake)", provider)
	}

	return llm.Wrap(base,
		llm.WithLogging(log.Default()),
		llm.Retry(3, 500*time.Millisecond),
		llm.RateLimitFromEnv("GACCIA"),
		llm.WithCache(256, 10*time.Minute),
	), nil
}

func loadCode(example, file string, lang arena.Language) (code, name string, err error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", "", err
		}
		base := filepath.Base(file)
		return string(b), strings.TrimSuffix(base, filepath.Ext(base)), nil
	}
	if example == "" {
		example = "fibonacci"
	}
	byLang, ok := exampleCodes[example]
	if !ok {
		return "", "", fmt.Errorf("unknown example %q (available: %s)", example, strings.Join(exampleNames(), ", "))
	}
	return byLang[lang.String()], example, nil
}

func printResults(done *arena.CompletedSession, dir string) {
	s := done.Session
	ev := done.Evaluation

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("FINAL RESULTS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Score Summary: %s\n", done.ScoreSummary())
	fmt.Printf("Winner: %s\n", ev.Winner)
	fmt.Println()
	fmt.Println("Competitive Snark:")
	fmt.Printf("  Python says: %s\n", ev.PythonSnark)
	fmt.Printf("  TypeScript says: %s\n", ev.TypeScriptSnark)
	fmt.Println()
	fmt.Println("Round Summary:")
	fmt.Printf("  Python implementations: %d\n", len(s.PythonImplementations))
	fmt.Printf("  TypeScript implementations: %d\n", len(s.TypeScriptImplementations))
	fmt.Printf("  Code evolution: %s -> %s -> ...\n", s.OriginalLanguage.Title(), s.OriginalLanguage.Other().Title())
	fmt.Println()
	fmt.Printf("Detailed results: %s\n", dir)
	fmt.Printf("Summary report: %s\n", filepath.Join(dir, "SUMMARY.md"))
}
