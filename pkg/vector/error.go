package vector

import "errors"

var (
	// ErrPartitionNotFound is returned by operations that require an
	// existing partition when it has never been ingested into.
	ErrPartitionNotFound = errors.New("partition not found")

	// ErrUnavailable is returned when the vector store cannot be reached or
	// keeps failing after retries.
	ErrUnavailable = errors.New("vector store unavailable")
)
