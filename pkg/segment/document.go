package segment

// MediaTypePDF is the only media type the segmenter accepts.
const MediaTypePDF = "application/pdf"

// Document is an uploaded source document. It exists only for the duration
// of ingestion; after segmentation only the derived chunks (and their
// embeddings) persist.
type Document struct {
	// Name is the client-declared filename, used for logging and events.
	Name string

	// MediaType is the client-declared content type.
	MediaType string

	// Data is the raw document bytes.
	Data []byte
}

// Chunk is a contiguous span of extracted text, the unit of embedding and
// retrieval. Consecutive chunks overlap by roughly the configured overlap.
type Chunk struct {
	// Ordinal is the zero-based position of the chunk within the document.
	Ordinal int

	// Start and End are rune offsets into the extracted text. Concatenating
	// Text[End(i-1)-Start(i):] across ordered chunks reconstructs the
	// extracted text exactly.
	Start int
	End   int

	// Text is the chunk content.
	Text string
}
