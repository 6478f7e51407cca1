// Package ingest runs the document ingestion pipeline: segment a document,
// embed its chunks, and upsert them into a fingerprint-scoped vector
// partition.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/embeddings"
	"github.com/veridocai/veridoc/pkg/eventstream"
	"github.com/veridocai/veridoc/pkg/fingerprint"
	"github.com/veridocai/veridoc/pkg/segment"
	"github.com/veridocai/veridoc/pkg/vector"
)

// Result describes a completed ingestion.
type Result struct {
	// Partition is the fingerprint-derived partition id the document's
	// chunks were upserted into. Clients present it on every subsequent
	// question about this document.
	Partition string

	// Chunks is the number of chunks embedded and stored.
	Chunks int
}

// Pipeline ties segmentation, embedding and vector storage into a single
// ingestion flow. It is safe for concurrent use; concurrent ingestions of
// the same bytes converge on the same partition.
type Pipeline struct {
	segmenter *segment.Segmenter
	embedder  embeddings.Embedder
	store     vector.Driver
	publisher eventstream.Publisher
	logger    *zap.Logger
}

// NewPipeline creates an ingestion pipeline. A nil publisher disables event
// emission.
func NewPipeline(
	segmenter *segment.Segmenter,
	embedder embeddings.Embedder,
	store vector.Driver,
	publisher eventstream.Publisher,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		segmenter: segmenter,
		embedder:  embedder,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest runs the full pipeline for one document. The partition id is
// derived from the raw bytes before any processing, so identical content
// always lands in (and overwrites) the same partition regardless of the
// declared filename. No partition id is returned on failure; a failed
// ingestion grants the caller nothing to query.
func (p *Pipeline) Ingest(ctx context.Context, doc segment.Document) (*Result, error) {
	start := time.Now()

	partition := fingerprint.Fingerprint(doc.Data)

	chunks, err := p.segmenter.ExtractAndSplit(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("segmenting %s: %w", doc.Name, err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	docs := make([]vector.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = vector.Document{
			ID:        fmt.Sprintf("%s:%d", partition, c.Ordinal),
			Ordinal:   c.Ordinal,
			Text:      c.Text,
			Embedding: vectors[i],
		}
	}

	if err := p.store.Upsert(ctx, partition, docs); err != nil {
		return nil, fmt.Errorf("upserting into partition %s: %w", partition, err)
	}

	elapsed := time.Since(start)

	p.logger.Info("document ingested",
		zap.String("name", doc.Name),
		zap.String("partition", partition),
		zap.Int("chunks", len(chunks)),
		zap.Duration("duration", elapsed),
	)

	p.publishIngested(ctx, partition, doc.Name, len(chunks), elapsed)

	return &Result{
		Partition: partition,
		Chunks:    len(chunks),
	}, nil
}

// publishIngested emits the ingestion event best-effort. The document is
// already stored; a publish failure is logged, never surfaced.
func (p *Pipeline) publishIngested(ctx context.Context, partition, name string, chunks int, elapsed time.Duration) {
	if p.publisher == nil {
		return
	}

	event := &eventstream.DocumentIngestedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeDocumentIngested,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Partition:     partition,
		DocumentName:  name,
		Chunks:        chunks,
		DurationMs:    elapsed.Milliseconds(),
	}

	if err := p.publisher.PublishIngested(ctx, event); err != nil {
		p.logger.Warn("failed to publish ingestion event",
			zap.String("partition", partition),
			zap.Error(err),
		)
	}
}
