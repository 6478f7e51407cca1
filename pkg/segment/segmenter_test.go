package segment

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

// cannedExtractor returns fixed page text without touching the input bytes.
type cannedExtractor struct {
	pages []string
	err   error
	calls int
}

func (e *cannedExtractor) Extract(_ context.Context, _ []byte) ([]string, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.pages, nil
}

var _ = Describe("Segmenter", func() {
	var (
		ctx       context.Context
		extractor *cannedExtractor
		segmenter *Segmenter
	)

	newDoc := func(mediaType string) Document {
		return Document{
			Name:      "paper.pdf",
			MediaType: mediaType,
			Data:      []byte("%PDF-1.4 irrelevant"),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		extractor = &cannedExtractor{pages: []string{"page one text", "page two text"}}
		segmenter = NewSegmenter(zap.NewNop(), WithExtractor(extractor))
	})

	Context("with a non-PDF media type", func() {
		It("rejects the document before extraction", func() {
			_, err := segmenter.ExtractAndSplit(ctx, newDoc("text/plain"))
			Expect(err).To(MatchError(ErrUnsupportedFormat))
			Expect(extractor.calls).To(Equal(0))
		})
	})

	Context("when extraction fails", func() {
		It("returns an extraction error", func() {
			extractor.err = errors.New("corrupt xref table")
			_, err := segmenter.ExtractAndSplit(ctx, newDoc(MediaTypePDF))
			Expect(err).To(MatchError(ErrExtractionFailed))
		})
	})

	Context("when the document yields no text", func() {
		It("rejects an empty page list", func() {
			extractor.pages = nil
			_, err := segmenter.ExtractAndSplit(ctx, newDoc(MediaTypePDF))
			Expect(err).To(MatchError(ErrEmptyDocument))
		})

		It("rejects whitespace-only text", func() {
			extractor.pages = []string{"   ", "\n\t"}
			_, err := segmenter.ExtractAndSplit(ctx, newDoc(MediaTypePDF))
			Expect(err).To(MatchError(ErrEmptyDocument))
		})
	})

	Context("with a small document", func() {
		It("joins pages into one chunk", func() {
			chunks, err := segmenter.ExtractAndSplit(ctx, newDoc(MediaTypePDF))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).To(HaveLen(1))
			Expect(chunks[0].Text).To(Equal("page one text\n\npage two text"))
		})
	})

	Context("with a large document", func() {
		It("spans chunks across page boundaries", func() {
			extractor.pages = []string{
				strings.Repeat("first page sentence. ", 40),
				strings.Repeat("second page sentence. ", 40),
			}
			segmenter = NewSegmenter(zap.NewNop(),
				WithExtractor(extractor),
				WithChunkSize(300),
				WithChunkOverlap(50),
			)

			chunks, err := segmenter.ExtractAndSplit(ctx, newDoc(MediaTypePDF))
			Expect(err).NotTo(HaveOccurred())
			Expect(len(chunks)).To(BeNumerically(">", 2))
			for _, c := range chunks {
				Expect(len([]rune(c.Text))).To(BeNumerically("<=", 300))
			}
		})
	})

	Context("with an overlap at or above the chunk size", func() {
		It("clamps the overlap and still terminates", func() {
			extractor.pages = []string{strings.Repeat("word ", 100)}
			segmenter = NewSegmenter(zap.NewNop(),
				WithExtractor(extractor),
				WithChunkSize(50),
				WithChunkOverlap(50),
			)

			chunks, err := segmenter.ExtractAndSplit(ctx, newDoc(MediaTypePDF))
			Expect(err).NotTo(HaveOccurred())
			Expect(len(chunks)).To(BeNumerically(">", 1))
		})
	})
})
