// Package ollama implements the embeddings gateway against Ollama's
// embedding API.
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
	"github.com/veridocai/veridoc/pkg/embeddings"
)

const (
	// DefaultModel is the default model used for embeddings.
	DefaultModel = "nomic-embed-text"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout bounds a single embed call. Generous because local
	// models may need to load on first use.
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama embedder.
type Config struct {
	// BaseURL is the Ollama API URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Model is the embedding model to use. Defaults to DefaultModel.
	Model string

	// Timeout bounds each HTTP call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Retry is the backoff policy for transient failures. Zero value means
	// backoff.DefaultPolicy.
	Retry backoff.Policy
}

// Embedder wraps Ollama's embedding API.
type Embedder struct {
	baseURL    string
	model      string
	retry      backoff.Policy
	httpClient *http.Client
}

// embedRequest is the request body for Ollama's embedding API. Input takes
// a string or an array; we always send the array form.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbedder creates a new embedder using Ollama's embedding API.
func NewEmbedder(cfg Config) (*Embedder, error) {
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

	return &Embedder{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		retry:   cfg.Retry,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in one call to /api/embed.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float32
	err := backoff.Retry(ctx, e.retry, func(ctx context.Context) error {
		vecs, err := e.embedOnce(ctx, texts)
		if err != nil {
			return err
		}
		out = vecs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embeddings.ErrUnavailable, err)
	}

	return out, nil
}

func (e *Embedder) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	jsonBody, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, backoff.Permanent(fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body)))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(embedResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embedResp.Embeddings))
	}

	return embedResp.Embeddings, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
