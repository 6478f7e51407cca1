package testutils

import (
	"context"
	"fmt"
)

// MockGenerator is a test generator with a canned response
type MockGenerator struct {
	// Response is returned from Generate. Empty returns the prompt back.
	Response string

	// Fail causes Generate to return an error
	Fail bool

	// FailErr, when set, is returned instead of the generic failure
	FailErr error

	// Prompts records every prompt passed to Generate
	Prompts []string
}

func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)

	if m.Fail {
		if m.FailErr != nil {
			return "", m.FailErr
		}
		return "", fmt.Errorf("mock generation failure")
	}

	if m.Response == "" {
		return prompt, nil
	}
	return m.Response, nil
}

func (m *MockGenerator) Close() error {
	return nil
}
