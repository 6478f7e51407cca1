package chroma_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/backoff"
	"github.com/veridocai/veridoc/pkg/vector"
	"github.com/veridocai/veridoc/pkg/vector/chroma"
)

// fakeChroma records collection sub-endpoint requests and replies with
// canned bodies.
type fakeChroma struct {
	mu        sync.Mutex
	requests  map[string][]map[string]any
	responses map[string]any
	failures  map[string]int
	failCode  map[string]int
}

func newFakeChroma() *fakeChroma {
	return &fakeChroma{
		requests:  make(map[string][]map[string]any),
		responses: make(map[string]any),
		failures:  make(map[string]int),
		failCode:  make(map[string]int),
	}
}

// failNext makes the next n requests to endpoint reply with the given
// status code before recovering.
func (f *fakeChroma) failNext(endpoint string, code, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[endpoint] = n
	f.failCode[endpoint] = code
}

func (f *fakeChroma) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		// Collection lookup during NewDriver.
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(map[string]string{
				"id":   "collection-id",
				"name": "veridoc",
			})
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		endpoint := parts[len(parts)-1]

		body, _ := io.ReadAll(r.Body)
		var parsed map[string]any
		json.Unmarshal(body, &parsed)

		f.mu.Lock()
		f.requests[endpoint] = append(f.requests[endpoint], parsed)
		response := f.responses[endpoint]
		if f.failures[endpoint] > 0 {
			f.failures[endpoint]--
			code := f.failCode[endpoint]
			f.mu.Unlock()
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{"error": "injected failure"})
			return
		}
		f.mu.Unlock()

		if response == nil {
			response = map[string]any{}
		}
		json.NewEncoder(w).Encode(response)
	})
}

func (f *fakeChroma) received(endpoint string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[endpoint]
}

var _ = Describe("Driver", func() {
	var (
		ctx    context.Context
		fake   *fakeChroma
		server *httptest.Server
		driver *chroma.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = newFakeChroma()
		server = httptest.NewServer(fake.handler())

		var err error
		driver, err = chroma.NewDriver(chroma.Config{URL: server.URL}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("NewDriver", func() {
		It("returns an error when the URL is empty", func() {
			_, err := chroma.NewDriver(chroma.Config{URL: ""}, zap.NewNop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("chroma URL is required"))
		})

		It("wraps connection failures as unavailability", func() {
			server.Close()
			_, err := chroma.NewDriver(chroma.Config{URL: server.URL}, zap.NewNop())
			Expect(err).To(MatchError(vector.ErrUnavailable))
		})
	})

	Describe("Upsert", func() {
		It("tags every document with its partition", func() {
			docs := []vector.Document{
				{ID: "p:0", Ordinal: 0, Text: "first", Embedding: []float32{0.1}},
				{ID: "p:1", Ordinal: 1, Text: "second", Embedding: []float32{0.2}},
			}
			Expect(driver.Upsert(ctx, "doc_abc", docs)).To(Succeed())

			reqs := fake.received("upsert")
			Expect(reqs).To(HaveLen(1))

			metadatas := reqs[0]["metadatas"].([]any)
			Expect(metadatas).To(HaveLen(2))
			for _, meta := range metadatas {
				Expect(meta.(map[string]any)["partition"]).To(Equal("doc_abc"))
			}
		})

		It("is a no-op for an empty batch", func() {
			Expect(driver.Upsert(ctx, "doc_abc", nil)).To(Succeed())
			Expect(fake.received("upsert")).To(BeEmpty())
		})
	})

	Describe("Query", func() {
		It("scopes the query to the partition", func() {
			fake.responses["query"] = map[string]any{
				"ids":       [][]string{{"p:0"}},
				"distances": [][]float32{{0.25}},
				"documents": [][]string{{"chunk text"}},
				"metadatas": []any{[]any{map[string]any{"partition": "doc_abc", "ordinal": 0}}},
			}

			results, err := driver.Query(ctx, "doc_abc", []float32{0.1}, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("p:0"))
			Expect(results[0].Text).To(Equal("chunk text"))
			Expect(results[0].Score).To(BeNumerically("~", 0.8, 0.001))

			reqs := fake.received("query")
			Expect(reqs).To(HaveLen(1))
			where := reqs[0]["where"].(map[string]any)
			Expect(where["partition"]).To(Equal("doc_abc"))
			Expect(reqs[0]["n_results"]).To(BeEquivalentTo(4))
		})

		It("returns no results when the partition has no matches", func() {
			fake.responses["query"] = map[string]any{
				"ids": [][]string{{}},
			}

			results, err := driver.Query(ctx, "doc_abc", []float32{0.1}, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("HasPartition", func() {
		It("reports true when a document exists", func() {
			fake.responses["get"] = map[string]any{"ids": []string{"p:0"}}

			exists, err := driver.HasPartition(ctx, "doc_abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			reqs := fake.received("get")
			Expect(reqs[0]["where"].(map[string]any)["partition"]).To(Equal("doc_abc"))
		})

		It("reports false for an empty partition", func() {
			fake.responses["get"] = map[string]any{"ids": []string{}}

			exists, err := driver.HasPartition(ctx, "doc_missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("transient failures", func() {
		BeforeEach(func() {
			var err error
			driver, err = chroma.NewDriver(chroma.Config{
				URL: server.URL,
				Retry: backoff.Policy{
					MaxAttempts: 3,
					BaseDelay:   time.Millisecond,
				},
			}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
		})

		It("retries a transient failure and recovers", func() {
			fake.failNext("query", http.StatusServiceUnavailable, 1)
			fake.responses["query"] = map[string]any{
				"ids":       [][]string{{"p:0"}},
				"distances": [][]float32{{0.25}},
				"documents": [][]string{{"chunk text"}},
			}

			results, err := driver.Query(ctx, "doc_abc", []float32{0.1}, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(fake.received("query")).To(HaveLen(2))
		})

		It("surfaces exhausted retries as unavailability", func() {
			fake.failNext("query", http.StatusServiceUnavailable, 10)

			_, err := driver.Query(ctx, "doc_abc", []float32{0.1}, 4)
			Expect(err).To(MatchError(vector.ErrUnavailable))
			Expect(fake.received("query")).To(HaveLen(3))
		})

		It("does not retry validation failures", func() {
			fake.failNext("upsert", http.StatusBadRequest, 10)

			docs := []vector.Document{{ID: "p:0", Text: "first", Embedding: []float32{0.1}}}
			err := driver.Upsert(ctx, "doc_abc", docs)
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(vector.ErrUnavailable))
			Expect(fake.received("upsert")).To(HaveLen(1))
		})
	})

	Describe("DeletePartition", func() {
		It("deletes by partition filter", func() {
			Expect(driver.DeletePartition(ctx, "doc_abc")).To(Succeed())

			reqs := fake.received("delete")
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0]["where"].(map[string]any)["partition"]).To(Equal("doc_abc"))
		})
	})
})
