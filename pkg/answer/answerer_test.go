package answer

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/fingerprint"
	testutils "github.com/veridocai/veridoc/pkg/utils/test"
	"github.com/veridocai/veridoc/pkg/vector"
)

var _ = Describe("Answerer", func() {
	var (
		ctx       context.Context
		embedder  *testutils.MockEmbedder
		store     *testutils.MockVectorDriver
		generator *testutils.MockGenerator
		answerer  *Answerer
		partition string
	)

	seedPartition := func(texts ...string) {
		docs := make([]vector.Document, len(texts))
		for i, text := range texts {
			docs[i] = vector.Document{
				ID:        partition + ":" + string(rune('0'+i)),
				Ordinal:   i,
				Text:      text,
				Embedding: []float32{0.1, 0.2, 0.3},
			}
		}
		Expect(store.Upsert(ctx, partition, docs)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		embedder = testutils.NewMockEmbedder()
		store = testutils.NewMockVectorDriver()
		generator = testutils.NewMockGenerator("The total supply is 1,000,000 tokens.")
		answerer = NewAnswerer(embedder, store, generator, zap.NewNop())
		partition = fingerprint.Fingerprint([]byte("whitepaper"))
	})

	Context("with missing inputs", func() {
		It("rejects an empty question without calling anything", func() {
			_, err := answerer.Answer(ctx, partition, "  ")
			Expect(err).To(MatchError(ErrInvalidRequest))
			Expect(embedder.EmbedCalls).To(Equal(0))
			Expect(store.QueryCalls).To(Equal(0))
			Expect(generator.Prompts).To(BeEmpty())
		})

		It("rejects an empty partition id without calling anything", func() {
			_, err := answerer.Answer(ctx, "", "What is the supply?")
			Expect(err).To(MatchError(ErrInvalidRequest))
			Expect(embedder.EmbedCalls).To(Equal(0))
			Expect(store.QueryCalls).To(Equal(0))
		})

		It("rejects a malformed partition id", func() {
			_, err := answerer.Answer(ctx, "not-a-partition", "What is the supply?")
			Expect(err).To(MatchError(ErrInvalidRequest))
			Expect(embedder.EmbedCalls).To(Equal(0))
		})
	})

	Context("with an unknown partition", func() {
		It("returns ErrUnknownPartition", func() {
			_, err := answerer.Answer(ctx, partition, "What is the supply?")
			Expect(err).To(MatchError(ErrUnknownPartition))
			Expect(generator.Prompts).To(BeEmpty())
		})
	})

	Context("with an existing partition", func() {
		BeforeEach(func() {
			seedPartition(
				"The token supply is capped at 1,000,000.",
				"Staking rewards decay annually.",
			)
		})

		It("answers grounded in the retrieved chunks", func() {
			response, err := answerer.Answer(ctx, partition, "What is the total supply?")
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(Equal("The total supply is 1,000,000 tokens."))
		})

		It("includes the retrieved chunks and the question in the prompt", func() {
			_, err := answerer.Answer(ctx, partition, "What is the total supply?")
			Expect(err).NotTo(HaveOccurred())

			Expect(generator.Prompts).To(HaveLen(1))
			prompt := generator.Prompts[0]
			Expect(prompt).To(ContainSubstring("The token supply is capped at 1,000,000."))
			Expect(prompt).To(ContainSubstring("Staking rewards decay annually."))
			Expect(prompt).To(ContainSubstring("What is the total supply?"))
		})

		It("retrieves at most topK chunks", func() {
			small := NewAnswerer(embedder, store, generator, zap.NewNop(), WithTopK(1))
			_, err := small.Answer(ctx, partition, "What is the total supply?")
			Expect(err).NotTo(HaveOccurred())

			Expect(generator.Prompts).To(HaveLen(1))
			Expect(generator.Prompts[0]).NotTo(ContainSubstring("Staking rewards decay annually."))
		})

		It("never sees chunks from another partition", func() {
			other := fingerprint.Fingerprint([]byte("other paper"))
			Expect(store.Upsert(ctx, other, []vector.Document{{
				ID:        other + ":0",
				Text:      "Completely unrelated content.",
				Embedding: []float32{0.9, 0.9, 0.9},
			}})).To(Succeed())

			_, err := answerer.Answer(ctx, partition, "What is the total supply?")
			Expect(err).NotTo(HaveOccurred())
			Expect(generator.Prompts[0]).NotTo(ContainSubstring("Completely unrelated content."))
		})
	})

	Context("when retrieval finds nothing in an existing partition", func() {
		BeforeEach(func() {
			seedPartition("The token supply is capped at 1,000,000.")
			store.Results = []vector.QueryResult{}
		})

		It("returns the sentinel answer without generating", func() {
			response, err := answerer.Answer(ctx, partition, "What is the capital of France?")
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(Equal(SentinelAnswer))
			Expect(generator.Prompts).To(BeEmpty())
		})
	})

	Context("when dependencies fail", func() {
		BeforeEach(func() {
			seedPartition("The token supply is capped at 1,000,000.")
		})

		It("surfaces embedding failures", func() {
			embedder.Fail = true
			_, err := answerer.Answer(ctx, partition, "What is the supply?")
			Expect(err).To(HaveOccurred())
		})

		It("surfaces query failures", func() {
			store.FailQuery = true
			_, err := answerer.Answer(ctx, partition, "What is the supply?")
			Expect(err).To(HaveOccurred())
		})

		It("surfaces generation failures", func() {
			generator.Fail = true
			_, err := answerer.Answer(ctx, partition, "What is the supply?")
			Expect(err).To(HaveOccurred())
		})
	})
})
