package testutils

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/veridocai/veridoc/pkg/vector"
)

// MockVectorDriver is an in-memory, partition-aware test vector driver
type MockVectorDriver struct {
	mu         sync.Mutex
	partitions map[string]map[string]vector.Document

	// Results, when set, is returned from Query verbatim (capped to topK)
	Results []vector.QueryResult

	// FailUpsert and FailQuery inject errors
	FailUpsert bool
	FailQuery  bool

	// QueryCalls counts Query invocations
	QueryCalls int
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		partitions: make(map[string]map[string]vector.Document),
	}
}

func (m *MockVectorDriver) Upsert(_ context.Context, partition string, docs []vector.Document) error {
	if m.FailUpsert {
		return fmt.Errorf("mock upsert failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.partitions[partition]
	if !ok {
		p = make(map[string]vector.Document)
		m.partitions[partition] = p
	}
	for _, doc := range docs {
		p[doc.ID] = doc
	}
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, partition string, _ []float32, topK int) ([]vector.QueryResult, error) {
	m.mu.Lock()
	m.QueryCalls++
	m.mu.Unlock()

	if m.FailQuery {
		return nil, fmt.Errorf("mock query failure")
	}

	if m.Results != nil {
		if len(m.Results) > topK {
			return m.Results[:topK], nil
		}
		return m.Results, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.partitions[partition]
	docs := make([]vector.Document, 0, len(p))
	for _, doc := range p {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Ordinal < docs[j].Ordinal })

	results := make([]vector.QueryResult, 0, topK)
	for i, doc := range docs {
		if i >= topK {
			break
		}
		results = append(results, vector.QueryResult{Document: doc, Score: 1.0})
	}
	return results, nil
}

func (m *MockVectorDriver) HasPartition(_ context.Context, partition string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.partitions[partition]
	return ok && len(p) > 0, nil
}

func (m *MockVectorDriver) DeletePartition(_ context.Context, partition string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.partitions, partition)
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}

// Stored returns the documents held for a partition, ordered by ordinal.
func (m *MockVectorDriver) Stored(partition string) []vector.Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.partitions[partition]
	docs := make([]vector.Document, 0, len(p))
	for _, doc := range p {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Ordinal < docs[j].Ordinal })
	return docs
}

var _ vector.Driver = (*MockVectorDriver)(nil)
