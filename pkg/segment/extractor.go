package segment

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls page texts out of a raw PDF. The production implementation
// parses the document in-process; tests substitute a canned extractor.
type Extractor interface {
	// Extract returns the text of each page in document order. An error
	// indicates the document could not be read at all (corrupt, encrypted,
	// truncated); an empty result indicates a readable document with no
	// text content.
	Extract(ctx context.Context, data []byte) ([]string, error)
}

// PDFExtractor extracts text from PDF bytes using a pure-Go parser.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract parses the PDF and returns per-page plain text.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not sink the document, but it
			// is worth surfacing if every page fails; callers treat an
			// all-empty result as no extractable text.
			continue
		}

		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return pages, nil
}

var _ Extractor = (*PDFExtractor)(nil)
