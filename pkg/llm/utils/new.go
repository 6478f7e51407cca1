// Package llmutils is the generation utility package
package llmutils

import (
	"fmt"

	"github.com/veridocai/veridoc/pkg/llm"
	"github.com/veridocai/veridoc/pkg/llm/ollama"
	"github.com/veridocai/veridoc/pkg/llm/openai"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
	Temperature  float64
}

func NewGenerator(o *NewGeneratorOpts) (llm.Generator, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewGenerator(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewGenerator(openai.Config{
			BaseURL:     o.TargetURL,
			APIKey:      o.APIKey,
			Model:       o.Model,
			Temperature: o.Temperature,
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", o.ProviderType)
	}
}
