package config

// Config represents the veridoc configuration, loadable from config.toml,
// VERIDOC_-prefixed environment variables, or CLI flags. The TOML layout
// uses sections for logical grouping.
type Config struct {
	Version     int               `mapstructure:"version" toml:"version"`
	API         APIConfig         `mapstructure:"api" toml:"api"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store" toml:"vector_store"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding" toml:"embedding"`
	LLM         LLMConfig         `mapstructure:"llm" toml:"llm"`
	Segmenter   SegmenterConfig   `mapstructure:"segmenter" toml:"segmenter"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval" toml:"retrieval"`
	Events      EventsConfig      `mapstructure:"events" toml:"events"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Listen string `mapstructure:"listen" toml:"listen,omitempty"`

	// MaxUploadBytes caps the request body size for document uploads.
	MaxUploadBytes int `mapstructure:"max_upload_bytes" toml:"max_upload_bytes,omitempty"`

	// AuthToken, when non-empty, requires a matching bearer token on every
	// request except the liveness probe.
	AuthToken string `mapstructure:"auth_token" toml:"auth_token,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `mapstructure:"provider" toml:"provider,omitempty"`
	Target   string `mapstructure:"target" toml:"target,omitempty"`

	// SQLitePath is the database file used by the sqlitevec provider.
	SQLitePath string `mapstructure:"sqlite_path" toml:"sqlite_path,omitempty"`

	// Collection names the shared collection for providers that have one.
	Collection string `mapstructure:"collection" toml:"collection,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider" toml:"provider,omitempty"`
	Target     string `mapstructure:"target" toml:"target,omitempty"`
	Model      string `mapstructure:"model" toml:"model,omitempty"`
	Dimensions uint   `mapstructure:"dimensions" toml:"dimensions,omitempty"`
	APIKey     string `mapstructure:"api_key" toml:"api_key,omitempty"`

	// RequestsPerSecond throttles outbound embedding calls. Zero disables
	// throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second,omitempty"`
}

// LLMConfig holds answer generation provider settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" toml:"provider,omitempty"`
	Target   string `mapstructure:"target" toml:"target,omitempty"`
	Model    string `mapstructure:"model" toml:"model,omitempty"`
	APIKey   string `mapstructure:"api_key" toml:"api_key,omitempty"`
}

// SegmenterConfig holds chunking settings.
type SegmenterConfig struct {
	ChunkSize    int `mapstructure:"chunk_size" toml:"chunk_size,omitempty"`
	ChunkOverlap int `mapstructure:"chunk_overlap" toml:"chunk_overlap,omitempty"`
}

// RetrievalConfig holds question answering settings.
type RetrievalConfig struct {
	// TopK is the number of chunks retrieved per question.
	TopK int `mapstructure:"top_k" toml:"top_k,omitempty"`
}

// EventsConfig holds ingestion event publishing settings.
type EventsConfig struct {
	// Provider is "kafka" or "nop". Empty disables publishing.
	Provider string   `mapstructure:"provider" toml:"provider,omitempty"`
	Brokers  []string `mapstructure:"brokers" toml:"brokers,omitempty"`
	Topic    string   `mapstructure:"topic" toml:"topic,omitempty"`
}
