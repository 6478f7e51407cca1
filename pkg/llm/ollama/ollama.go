// Package ollama implements the generation adapter against Ollama's
// generate API.
package ollama

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
	// DefaultModel is the default generation model.
	DefaultModel = "llama3.2"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout bounds a single generate call.
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama generator.
type Config struct {
	// BaseURL is the Ollama API URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Model is the generation model to use. Defaults to DefaultModel.
	Model string

	// Timeout bounds each HTTP call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Retry is the backoff policy for transient failures. Zero value means
	// backoff.DefaultPolicy.
	Retry backoff.Policy
}

// Generator wraps Ollama's generate API.
type Generator struct {
	baseURL    string
	model      string
	retry      backoff.Policy
	httpClient *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// NewGenerator creates a generator using Ollama's generate API.
func NewGenerator(cfg Config) (*Generator, error) {
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
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		retry:   cfg.Retry,
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
	jsonBody, err := json.Marshal(generateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", backoff.Permanent(fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return genResp.Response, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

var _ llm.Generator = (*Generator)(nil)
