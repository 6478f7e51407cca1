package segment

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("split", func() {
	Context("with text shorter than the chunk size", func() {
		It("returns a single chunk holding the whole text", func() {
			chunks := split("short text", 100, 20)
			Expect(chunks).To(HaveLen(1))
			Expect(chunks[0].Text).To(Equal("short text"))
			Expect(chunks[0].Ordinal).To(Equal(0))
			Expect(chunks[0].Start).To(Equal(0))
			Expect(chunks[0].End).To(Equal(len([]rune("short text"))))
		})
	})

	Context("with text longer than the chunk size", func() {
		var (
			text   string
			chunks []Chunk
		)

		BeforeEach(func() {
			paragraphs := make([]string, 12)
			for i := range paragraphs {
				paragraphs[i] = strings.Repeat("some sentence here. ", 8)
			}
			text = strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
			chunks = split(text, 200, 40)
		})

		It("produces more than one chunk", func() {
			Expect(len(chunks)).To(BeNumerically(">", 1))
		})

		It("keeps every chunk within the size limit", func() {
			for _, c := range chunks {
				Expect(len([]rune(c.Text))).To(BeNumerically("<=", 200))
			}
		})

		It("assigns consecutive ordinals starting at zero", func() {
			for i, c := range chunks {
				Expect(c.Ordinal).To(Equal(i))
			}
		})

		It("records offsets that match the chunk text", func() {
			runes := []rune(text)
			for _, c := range chunks {
				Expect(string(runes[c.Start:c.End])).To(Equal(c.Text))
			}
		})

		It("covers the text from start to end with no gaps", func() {
			Expect(chunks[0].Start).To(Equal(0))
			Expect(chunks[len(chunks)-1].End).To(Equal(len([]rune(text))))
			for i := 1; i < len(chunks); i++ {
				Expect(chunks[i].Start).To(BeNumerically("<=", chunks[i-1].End))
			}
		})

		It("overlaps consecutive chunks by at most the configured overlap", func() {
			for i := 1; i < len(chunks); i++ {
				shared := chunks[i-1].End - chunks[i].Start
				Expect(shared).To(BeNumerically(">=", 0))
				Expect(shared).To(BeNumerically("<=", 40))
			}
		})

		It("is deterministic", func() {
			Expect(split(text, 200, 40)).To(Equal(chunks))
		})
	})

	Context("with multi-byte text", func() {
		It("measures sizes in runes, not bytes", func() {
			text := strings.Repeat("héllo wörld ", 50)
			chunks := split(text, 100, 10)
			for _, c := range chunks {
				Expect(len([]rune(c.Text))).To(BeNumerically("<=", 100))
			}
			runes := []rune(text)
			for _, c := range chunks {
				Expect(string(runes[c.Start:c.End])).To(Equal(c.Text))
			}
		})
	})

	Context("with text that has no natural boundaries", func() {
		It("hard-cuts at the chunk size", func() {
			text := strings.Repeat("a", 250)
			chunks := split(text, 100, 0)
			Expect(chunks).To(HaveLen(3))
			Expect(chunks[0].Text).To(HaveLen(100))
			Expect(chunks[1].Text).To(HaveLen(100))
			Expect(chunks[2].Text).To(HaveLen(50))
		})
	})

	It("returns nil for empty text", func() {
		Expect(split("", 100, 20)).To(BeNil())
	})
})
