// Package embeddings provides the text embedding gateway used on both the
// ingestion and query paths. Both paths must share one configured Embedder:
// vectors produced by different models are not comparable, and mixing them
// silently degrades retrieval.
package embeddings

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the embedding provider keeps failing after
// the retry policy is exhausted.
var ErrUnavailable = errors.New("embedding capability unavailable")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts a batch of texts in one provider round-trip where
	// the provider supports it. The result is order-preserving: one vector
	// per input, same dimensionality throughout.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
