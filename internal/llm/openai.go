package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIConfig configures an OpenAI-compatible chat-completions client.
// BaseURL may point at any compatible endpoint (e.g. a self-hosted gateway).
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	TokenCap int
}

// OpenAIClient speaks the OpenAI-compatible chat completions API over HTTP.
type OpenAIClient struct {
	model    string
	apiKey   string
	baseURL  string
	http     *http.Client
	tokenCap int
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("llm: openai model is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm: openai api key is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	cap := cfg.TokenCap
	if cap <= 0 {
		cap = 12000
	}
	return &OpenAIClient{
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		baseURL:  base,
		http:     &http.Client{Timeout: timeout},
		tokenCap: cap,
	}, nil
}

func (c *OpenAIClient) Name() string { return "OpenAI:" + c.model }
func (c *OpenAIClient) Close() error { return nil }
func (c *OpenAIClient) CountTokens(text string) int {
	return CountTokens(text)
}
func (c *OpenAIClient) TokenCapacity() int { return c.tokenCap }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", err
	}
	// 4xx responses other than 429 will not resolve with retries.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return "", NewPermanentError(fmt.Errorf("llm: openai status %d: %s", resp.StatusCode, truncate(string(data), 300)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: openai status %d: %s", resp.StatusCode, truncate(string(data), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: openai error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	out := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
