// Package answer serves grounded answers: retrieve the chunks most similar
// to a question from one document's partition, then generate a response
// constrained to that retrieved context.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/embeddings"
	"github.com/veridocai/veridoc/pkg/fingerprint"
	"github.com/veridocai/veridoc/pkg/llm"
	"github.com/veridocai/veridoc/pkg/vector"
)

var (
	// ErrInvalidRequest is returned when the partition id or question is
	// missing or malformed. Nothing external is called in that case.
	ErrInvalidRequest = errors.New("partition id and question must be non-empty")

	// ErrUnknownPartition is returned when the partition id is well-formed
	// but no document has ever been ingested under it.
	ErrUnknownPartition = errors.New("no document found for partition")
)

// SentinelAnswer is returned verbatim when retrieval finds nothing similar
// in an existing partition. It is produced without calling the generator.
const SentinelAnswer = "No information found in the document for this query."

const promptTemplate = `You are a helpful assistant. Answer the question using ONLY the context below. If the context does not contain the answer, say "I don't know based on the provided document."

Context:
%s

Question: %s

Answer:`

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// Answerer answers questions about a previously ingested document.
// It is safe for concurrent use.
type Answerer struct {
	embedder  embeddings.Embedder
	store     vector.Driver
	generator llm.Generator
	topK      int
	logger    *zap.Logger
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithTopK sets how many chunks are retrieved per question. Values below 1
// are ignored.
func WithTopK(k int) Option {
	return func(a *Answerer) {
		if k >= 1 {
			a.topK = k
		}
	}
}

// NewAnswerer creates an Answerer with the given dependencies.
func NewAnswerer(
	embedder embeddings.Embedder,
	store vector.Driver,
	generator llm.Generator,
	logger *zap.Logger,
	opts ...Option,
) *Answerer {
	a := &Answerer{
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      DefaultTopK,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Answer retrieves the chunks from the given partition most similar to the
// question and generates an answer grounded in them. An empty retrieval
// against an existing partition yields SentinelAnswer without invoking the
// generator; an unknown partition yields ErrUnknownPartition.
func (a *Answerer) Answer(ctx context.Context, partition, question string) (string, error) {
	partition = strings.TrimSpace(partition)
	question = strings.TrimSpace(question)
	if partition == "" || question == "" {
		return "", ErrInvalidRequest
	}
	if !fingerprint.IsFingerprint(partition) {
		return "", fmt.Errorf("%w: malformed partition id", ErrInvalidRequest)
	}

	embedding, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	results, err := a.store.Query(ctx, partition, embedding, a.topK)
	if err != nil {
		if errors.Is(err, vector.ErrPartitionNotFound) {
			return "", ErrUnknownPartition
		}
		return "", fmt.Errorf("querying partition %s: %w", partition, err)
	}

	if len(results) == 0 {
		exists, err := a.store.HasPartition(ctx, partition)
		if err != nil {
			return "", fmt.Errorf("checking partition %s: %w", partition, err)
		}
		if !exists {
			return "", ErrUnknownPartition
		}

		a.logger.Debug("retrieval returned no chunks",
			zap.String("partition", partition),
		)
		return SentinelAnswer, nil
	}

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Text
	}
	prompt := fmt.Sprintf(promptTemplate, strings.Join(contexts, "\n\n"), question)

	response, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	a.logger.Debug("answered question",
		zap.String("partition", partition),
		zap.Int("chunks_retrieved", len(results)),
	)

	return response, nil
}
