package segment

import "errors"

var (
	// ErrUnsupportedFormat is returned when a document's media type is not
	// application/pdf. Detected before any extraction work happens.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed is returned when the document is corrupt,
	// encrypted, or otherwise yields no readable text stream.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmptyDocument is returned when extraction succeeds but produces
	// zero chunks.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)
