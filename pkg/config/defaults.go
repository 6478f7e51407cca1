package config

const (
	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

const (
	defaultAPIListen      = ":8000"
	defaultMaxUploadBytes = 50 << 20

	defaultVectorProvider = "chroma"
	defaultVectorTarget   = "http://localhost:8001"
	defaultSQLitePath     = "veridoc.db"
	defaultCollection     = "veridoc"

	defaultEmbeddingProvider   = "openai"
	defaultEmbeddingTarget     = "https://api.openai.com/v1"
	defaultEmbeddingModel      = "text-embedding-3-small"
	defaultEmbeddingDimensions = 1536

	defaultLLMProvider = "openai"
	defaultLLMTarget   = "https://api.openai.com/v1"
	defaultLLMModel    = "gpt-3.5-turbo"

	defaultChunkSize    = 1000
	defaultChunkOverlap = 200

	defaultTopK = 4

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "veridoc.ingestion"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen:         defaultAPIListen,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			SQLitePath: defaultSQLitePath,
			Collection: defaultCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Target:   defaultLLMTarget,
			Model:    defaultLLMModel,
		},
		Segmenter: SegmenterConfig{
			ChunkSize:    defaultChunkSize,
			ChunkOverlap: defaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
