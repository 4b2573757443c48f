package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gaccia/internal/llm"
	"gaccia/internal/results"
	"gaccia/internal/server"
	"gaccia/internal/sessionstore"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	provider := flag.String("provider", "gemini", "LLM provider: gemini, openai, fake")
	model := flag.String("model", "", "model id (provider default when empty)")
	outDir := flag.String("out", "results", "results output directory")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()
	cli, err := buildClient(ctx, *provider, *model)
	if err != nil {
		log.Fatal(err)
	}
	defer cli.Close()

	store := sessionstore.NewFromEnv(filepath.Join(*outDir, "sessions.json"))
	defer store.Close()

	hub := server.NewHub()
	svc := server.NewService(cli, store, hub, *outDir)
	if cfg, ok := results.S3ConfigFromEnv(); ok {
		mirror, err := results.NewS3Mirror(cfg)
		if err != nil {
			log.Fatal(err)
		}
		svc.Mirror = mirror
		log.Printf("mirroring artifacts to bucket %s", cfg.Bucket)
	}
	handler := server.NewHandler(svc, hub)
	srv := server.New(*addr, handler.Mux())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal(err)
		}
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// buildClient mirrors the CLI's provider wiring; the server additionally
// relies on per-request hooks added by the service.
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
