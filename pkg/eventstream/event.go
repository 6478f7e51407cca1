// Package eventstream emits transport-neutral events as documents enter the
// index, so downstream consumers (audit, analytics, cache warmers) can react
// without being in the ingestion hot path.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDocumentIngested is emitted after a document's chunks are
	// upserted into its partition.
	EventTypeDocumentIngested = "veridoc.document.ingested"
)

// DocumentIngestedEvent is a transport-neutral event payload for a completed
// ingestion.
type DocumentIngestedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// Partition is the fingerprint-derived partition the document went into.
	Partition string `json:"partition"`

	// DocumentName is the client-declared filename.
	DocumentName string `json:"document_name,omitempty"`

	// Chunks is the number of chunks embedded and upserted.
	Chunks int `json:"chunks"`

	// DurationMs is the wall-clock time of the full ingestion.
	DurationMs int64 `json:"duration_ms"`
}
