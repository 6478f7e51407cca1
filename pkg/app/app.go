// Package app wires configuration into a running set of pipeline
// components. Commands build an App once and share its pipeline and
// answerer across surfaces (HTTP, MCP, CLI).
package app

import (
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/answer"
	"github.com/veridocai/veridoc/pkg/config"
	"github.com/veridocai/veridoc/pkg/embeddings"
	embeddingutils "github.com/veridocai/veridoc/pkg/embeddings/utils"
	"github.com/veridocai/veridoc/pkg/eventstream"
	eventstreamutils "github.com/veridocai/veridoc/pkg/eventstream/utils"
	"github.com/veridocai/veridoc/pkg/ingest"
	"github.com/veridocai/veridoc/pkg/llm"
	llmutils "github.com/veridocai/veridoc/pkg/llm/utils"
	"github.com/veridocai/veridoc/pkg/segment"
	"github.com/veridocai/veridoc/pkg/vector"
	vectorutils "github.com/veridocai/veridoc/pkg/vector/utils"
)

// App bundles the wired pipeline components for one process.
type App struct {
	Embedder  embeddings.Embedder
	Store     vector.Driver
	Generator llm.Generator
	Publisher eventstream.Publisher
	Pipeline  *ingest.Pipeline
	Answerer  *answer.Answerer
}

// New builds every component from the resolved configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType:      cfg.Embedding.Provider,
		TargetURL:         cfg.Embedding.Target,
		Model:             cfg.Embedding.Model,
		APIKey:            cfg.Embedding.APIKey,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	host, port := splitHostPort(cfg.VectorStore.Target)
	store, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		TargetURL:    cfg.VectorStore.Target,
		Host:         host,
		Port:         port,
		Collection:   cfg.VectorStore.Collection,
		DBPath:       cfg.VectorStore.SQLitePath,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	generator, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
		APIKey:       cfg.LLM.APIKey,
	})
	if err != nil {
		embedder.Close()
		store.Close()
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	publisher, err := eventstreamutils.NewPublisher(eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.Events.Provider,
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
		Logger:       logger,
	})
	if err != nil {
		embedder.Close()
		store.Close()
		generator.Close()
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	segmenter := segment.NewSegmenter(logger,
		segment.WithChunkSize(cfg.Segmenter.ChunkSize),
		segment.WithChunkOverlap(cfg.Segmenter.ChunkOverlap),
	)

	pipeline := ingest.NewPipeline(segmenter, embedder, store, publisher, logger)
	answerer := answer.NewAnswerer(embedder, store, generator, logger,
		answer.WithTopK(cfg.Retrieval.TopK),
	)

	return &App{
		Embedder:  embedder,
		Store:     store,
		Generator: generator,
		Publisher: publisher,
		Pipeline:  pipeline,
		Answerer:  answerer,
	}, nil
}

// Close releases every provider. Errors are collected, not short-circuited,
// so one failing close does not leak the rest.
func (a *App) Close() error {
	var errs []error
	for _, closer := range []func() error{
		a.Embedder.Close,
		a.Store.Close,
		a.Generator.Close,
		a.Publisher.Close,
	} {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing components: %v", errs)
	}
	return nil
}

// splitHostPort parses "host:port" targets for gRPC providers. URLs and
// bare hosts fall back to the raw string with port 0 so the provider can
// apply its own default.
func splitHostPort(target string) (string, int) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return target, 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return target, 0
	}
	return host, port
}
