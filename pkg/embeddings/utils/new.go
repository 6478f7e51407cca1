// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/veridocai/veridoc/pkg/embeddings"
	"github.com/veridocai/veridoc/pkg/embeddings/ollama"
	"github.com/veridocai/veridoc/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType      string
	TargetURL         string
	Model             string
	APIKey            string
	RequestsPerSecond float64
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewEmbedder(openai.Config{
			BaseURL:           o.TargetURL,
			APIKey:            o.APIKey,
			Model:             o.Model,
			RequestsPerSecond: o.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
