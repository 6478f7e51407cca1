package testutils

import "context"

// MockExtractor is a test extractor returning canned page text
type MockExtractor struct {
	// Pages is returned from Extract
	Pages []string

	// Err, when set, is returned from Extract
	Err error
}

func NewMockExtractor(pages ...string) *MockExtractor {
	return &MockExtractor{Pages: pages}
}

func (m *MockExtractor) Extract(_ context.Context, _ []byte) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages, nil
}
