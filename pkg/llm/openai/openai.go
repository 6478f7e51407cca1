// Package openai implements the generation adapter against OpenAI-compatible
// chat completion endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veridocai/veridoc/pkg/backoff"
	"github.com/veridocai/veridoc/pkg/llm"
)

const (
	// DefaultBaseURL is the OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the default generation model.
	DefaultModel = "gpt-3.5-turbo"

	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the OpenAI generator.
type Config struct {
	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is the bearer credential. Required.
	APIKey string

	// Model is the generation model identifier. Defaults to DefaultModel.
	Model string

	// Temperature is passed through to the provider. Answers should be
	// grounded, so the default of 0 is deliberate.
	Temperature float64

	// Timeout bounds each HTTP call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Retry is the backoff policy for transient failures. Zero value means
	// backoff.DefaultPolicy.
	Retry backoff.Policy
}

// Generator wraps an OpenAI-compatible chat completions API.
type Generator struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	retry       backoff.Policy
	httpClient  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGenerator creates a generator against an OpenAI-compatible endpoint.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai generator: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = backoff.DefaultPolicy()
	}

	return &Generator{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		retry:       cfg.Retry,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Generate returns the model's completion for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := backoff.Retry(ctx, g.retry, func(ctx context.Context) error {
		text, err := g.generateOnce(ctx, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}

	return out, nil
}

func (g *Generator) generateOnce(ctx context.Context, prompt string) (string, error) {
	jsonBody, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: g.temperature,
	})
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("chat completions returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", backoff.Permanent(fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, string(body)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if chatResp.Error != nil {
		return "", backoff.Permanent(fmt.Errorf("chat completions error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

var _ llm.Generator = (*Generator)(nil)
