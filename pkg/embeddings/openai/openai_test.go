package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridocai/veridoc/pkg/backoff"
	"github.com/veridocai/veridoc/pkg/embeddings"
	"github.com/veridocai/veridoc/pkg/embeddings/openai"
)

func fastRetry() backoff.Policy {
	return backoff.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func embeddingData(pairs ...[2]any) map[string]any {
	data := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		data[i] = map[string]any{"index": p[0], "embedding": p[1]}
	}
	return map[string]any{"data": data}
}

var _ = Describe("Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewEmbedder", func() {
		It("requires an API key", func() {
			_, err := openai.NewEmbedder(openai.Config{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("API key is required"))
		})
	})

	Describe("EmbedBatch", func() {
		It("sends the model and bearer token and returns vectors in input order", func() {
			var gotAuth string
			var gotModel string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				var req map[string]any
				json.NewDecoder(r.Body).Decode(&req)
				gotModel, _ = req["model"].(string)

				// Reversed order; index is authoritative.
				json.NewEncoder(w).Encode(embeddingData(
					[2]any{1, []float32{0.2, 0.2}},
					[2]any{0, []float32{0.1, 0.1}},
				))
			}))
			defer server.Close()

			embedder, err := openai.NewEmbedder(openai.Config{
				BaseURL: server.URL,
				APIKey:  "test-key",
				Retry:   fastRetry(),
			})
			Expect(err).NotTo(HaveOccurred())

			vecs, err := embedder.EmbedBatch(ctx, []string{"first", "second"})
			Expect(err).NotTo(HaveOccurred())
			Expect(vecs).To(HaveLen(2))
			Expect(vecs[0]).To(Equal([]float32{0.1, 0.1}))
			Expect(vecs[1]).To(Equal([]float32{0.2, 0.2}))

			Expect(gotAuth).To(Equal("Bearer test-key"))
			Expect(gotModel).To(Equal(openai.DefaultModel))
		})

		It("retries 429 responses until success", func() {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if attempts.Add(1) < 3 {
					http.Error(w, "rate limited", http.StatusTooManyRequests)
					return
				}
				json.NewEncoder(w).Encode(embeddingData([2]any{0, []float32{0.5}}))
			}))
			defer server.Close()

			embedder, err := openai.NewEmbedder(openai.Config{
				BaseURL: server.URL,
				APIKey:  "test-key",
				Retry:   fastRetry(),
			})
			Expect(err).NotTo(HaveOccurred())

			vecs, err := embedder.EmbedBatch(ctx, []string{"text"})
			Expect(err).NotTo(HaveOccurred())
			Expect(vecs).To(HaveLen(1))
			Expect(attempts.Load()).To(Equal(int32(3)))
		})

		It("does not retry other 4xx responses", func() {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				http.Error(w, "bad request", http.StatusBadRequest)
			}))
			defer server.Close()

			embedder, err := openai.NewEmbedder(openai.Config{
				BaseURL: server.URL,
				APIKey:  "test-key",
				Retry:   fastRetry(),
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.EmbedBatch(ctx, []string{"text"})
			Expect(err).To(MatchError(embeddings.ErrUnavailable))
			Expect(attempts.Load()).To(Equal(int32(1)))
		})

		It("reports unavailability after exhausting retries", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "down", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			embedder, err := openai.NewEmbedder(openai.Config{
				BaseURL: server.URL,
				APIKey:  "test-key",
				Retry:   fastRetry(),
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.EmbedBatch(ctx, []string{"text"})
			Expect(err).To(MatchError(embeddings.ErrUnavailable))
		})

		It("rejects a response with the wrong number of embeddings", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(embeddingData([2]any{0, []float32{0.5}}))
			}))
			defer server.Close()

			embedder, err := openai.NewEmbedder(openai.Config{
				BaseURL: server.URL,
				APIKey:  "test-key",
				Retry:   fastRetry(),
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.EmbedBatch(ctx, []string{"one", "two"})
			Expect(err).To(HaveOccurred())
		})

		It("returns nothing for an empty batch without calling out", func() {
			embedder, err := openai.NewEmbedder(openai.Config{
				BaseURL: "http://localhost:1",
				APIKey:  "test-key",
			})
			Expect(err).NotTo(HaveOccurred())

			vecs, err := embedder.EmbedBatch(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(vecs).To(BeNil())
		})
	})
})
