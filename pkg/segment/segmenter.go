// Package segment extracts text from uploaded documents and splits it into
// overlapping chunks sized for embedding. Page boundaries carry no meaning
// for chunking; a chunk may span a page break.
package segment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultChunkSize is the target maximum chunk length in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the overlap between consecutive chunks.
	DefaultChunkOverlap = 200
)

// Segmenter validates, extracts, and splits documents.
type Segmenter struct {
	extractor Extractor
	chunkSize int
	overlap   int
	logger    *zap.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithChunkSize sets the maximum chunk length in runes.
func WithChunkSize(size int) Option {
	return func(s *Segmenter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(s *Segmenter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithExtractor overrides the production PDF extractor.
func WithExtractor(e Extractor) Option {
	return func(s *Segmenter) {
		s.extractor = e
	}
}

// NewSegmenter creates a Segmenter. Overlap is clamped below the chunk size
// so splitting always makes forward progress.
func NewSegmenter(logger *zap.Logger, opts ...Option) *Segmenter {
	s := &Segmenter{
		extractor: NewPDFExtractor(),
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ExtractAndSplit turns a document into its ordered chunk sequence.
// Non-PDF media types are rejected before any bytes are touched.
func (s *Segmenter) ExtractAndSplit(ctx context.Context, doc Document) ([]Chunk, error) {
	if doc.MediaType != MediaTypePDF {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.MediaType)
	}

	pages, err := s.extractor.Extract(ctx, doc.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return nil, ErrEmptyDocument
	}

	chunks := split(text, s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	s.logger.Debug("segmented document",
		zap.String("name", doc.Name),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)),
	)

	return chunks, nil
}
