// Package testutils provides shared mocks for exercising the pipeline
// without external services.
package testutils

import (
	"context"
	"fmt"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	Embeddings map[string][]float32

	// FailOn causes Embed and EmbedBatch to return an error when the input
	// text matches
	FailOn string

	// Fail causes every call to return an error
	Fail bool

	// FailErr, when set, is returned instead of the generic failure
	FailErr error

	// EmbedCalls and BatchCalls count invocations
	EmbedCalls int
	BatchCalls int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.EmbedCalls++

	if m.Fail || (m.FailOn != "" && text == m.FailOn) {
		if m.FailErr != nil {
			return nil, m.FailErr
		}
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	return m.embeddingFor(text), nil
}

func (m *MockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.BatchCalls++

	if m.Fail {
		if m.FailErr != nil {
			return nil, m.FailErr
		}
		return nil, fmt.Errorf("mock batch embedding failure")
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if m.FailOn != "" && text == m.FailOn {
			return nil, fmt.Errorf("mock embedding failure for: %s", text)
		}
		out[i] = m.embeddingFor(text)
	}
	return out, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}

// embeddingFor returns the configured embedding or a deterministic default
// derived from the text so distinct texts get distinct vectors.
func (m *MockEmbedder) embeddingFor(text string) []float32 {
	if emb, ok := m.Embeddings[text]; ok {
		return emb
	}

	var sum float32
	for _, r := range text {
		sum += float32(r)
	}
	return []float32{0.1, 0.2, sum / 1000}
}
