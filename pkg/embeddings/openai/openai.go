// Package openai implements the embeddings gateway against OpenAI-compatible
// /embeddings endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridocai/veridoc/pkg/backoff"
	"github.com/veridocai/veridoc/pkg/embeddings"
)

const (
	// DefaultBaseURL is the OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the default embedding model.
	DefaultModel = "text-embedding-3-small"

	// DefaultTimeout bounds a single embeddings call.
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the OpenAI embedder.
type Config struct {
	// BaseURL is the API base URL. Defaults to DefaultBaseURL; point it at
	// any OpenAI-compatible server.
	BaseURL string

	// APIKey is the bearer credential. Required.
	APIKey string

	// Model is the embedding model identifier. Defaults to DefaultModel.
	Model string

	// Timeout bounds each HTTP call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Retry is the backoff policy for transient failures. Zero value means
	// backoff.DefaultPolicy.
	Retry backoff.Policy

	// RequestsPerSecond, when > 0, rate-limits outbound calls client-side.
	RequestsPerSecond float64
}

// Embedder wraps an OpenAI-compatible embeddings API.
type Embedder struct {
	baseURL    string
	apiKey     string
	model      string
	retry      backoff.Policy
	limiter    *rate.Limiter
	httpClient *http.Client
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewEmbedder creates an embedder against an OpenAI-compatible endpoint.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: API key is required")
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

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Embedder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		retry:   cfg.Retry,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Embed converts one text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in a single provider call, retrying transient
// failures per the configured policy.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float32
	err := backoff.Retry(ctx, e.retry, func(ctx context.Context) error {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

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

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("embeddings endpoint returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("embeddings endpoint returned status %d: %s", resp.StatusCode, string(body)))
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if embedResp.Error != nil {
		return nil, backoff.Permanent(fmt.Errorf("embeddings error: %s", embedResp.Error.Message))
	}
	if len(embedResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embedResp.Data))
	}

	// The API may return data out of order; index is authoritative.
	vecs := make([][]float32, len(texts))
	for _, d := range embedResp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}

	return vecs, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
