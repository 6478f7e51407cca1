// Package vector provides interfaces and implementations for partitioned
// vector storage. Each ingested document owns one partition, named by its
// content fingerprint; queries are always scoped to a single partition and
// never see content from another.
package vector

import "context"

// Document represents a stored chunk with its embedding.
type Document struct {
	// ID is a unique identifier for the chunk within the store. Implementers
	// rely on it being deterministic for a given (partition, ordinal) so
	// re-ingesting a document overwrites rather than duplicates.
	ID string

	// Ordinal is the chunk's position within its source document.
	Ordinal int

	// Text is the chunk content, returned verbatim on query.
	Text string

	// Embedding is the vector representation of the chunk text.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of embedded chunks, partitioned by
// document fingerprint. Implementations must be safe for concurrent use.
type Driver interface {
	// Upsert stores documents into the given partition, updating any
	// existing documents with the same IDs. The partition is created
	// implicitly on first upsert. Documents must be durably queryable when
	// Upsert returns without error.
	Upsert(ctx context.Context, partition string, docs []Document) error

	// Query finds the topK documents in the partition most similar to the
	// given embedding, ordered by descending similarity. An unknown
	// partition yields an empty result, not an error.
	Query(ctx context.Context, partition string, embedding []float32, topK int) ([]QueryResult, error)

	// HasPartition reports whether the partition holds any documents. Lets
	// callers distinguish "never ingested" from "nothing similar enough".
	HasPartition(ctx context.Context, partition string) (bool, error)

	// DeletePartition removes every document in the partition. Not exposed
	// over the HTTP surface; exists for operators and tests.
	DeletePartition(ctx context.Context, partition string) error

	// Close releases any resources held by the driver.
	Close() error
}
