package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g.
// --embedding-model on both "veridoc serve" and "veridoc ingest").
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "api.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of registry keys to Flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag, and
// BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagAPIListen       = "api-listen"
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagSQLitePath      = "sqlite-path"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagLLMProv         = "llm-provider"
	FlagLLMTgt          = "llm-target"
	FlagLLMModel        = "llm-model"
	FlagChunkSize       = "chunk-size"
	FlagChunkOverlap    = "chunk-overlap"
	FlagTopK            = "top-k"
	FlagEventsProv      = "events-provider"
)

// DefaultFlagSet returns the shared flag definitions used across commands.
func DefaultFlagSet() FlagSet {
	return FlagSet{
		FlagAPIListen: {
			Name:        "listen",
			Shorthand:   "l",
			ViperKey:    "api.listen",
			Description: "address the HTTP API listens on",
		},
		FlagVectorStoreProv: {
			Name:        "vector-store-provider",
			ViperKey:    "vector_store.provider",
			Description: "vector store provider (chroma, qdrant, sqlitevec)",
		},
		FlagVectorStoreTgt: {
			Name:        "vector-store-target",
			ViperKey:    "vector_store.target",
			Description: "vector store target URL or host:port",
		},
		FlagSQLitePath: {
			Name:        "sqlite-path",
			ViperKey:    "vector_store.sqlite_path",
			Description: "database file for the sqlitevec provider",
		},
		FlagEmbeddingProv: {
			Name:        "embedding-provider",
			ViperKey:    "embedding.provider",
			Description: "embedding provider (openai, ollama)",
		},
		FlagEmbeddingTgt: {
			Name:        "embedding-target",
			ViperKey:    "embedding.target",
			Description: "embedding provider base URL",
		},
		FlagEmbeddingModel: {
			Name:        "embedding-model",
			ViperKey:    "embedding.model",
			Description: "embedding model name",
		},
		FlagLLMProv: {
			Name:        "llm-provider",
			ViperKey:    "llm.provider",
			Description: "answer generation provider (openai, ollama)",
		},
		FlagLLMTgt: {
			Name:        "llm-target",
			ViperKey:    "llm.target",
			Description: "answer generation provider base URL",
		},
		FlagLLMModel: {
			Name:        "llm-model",
			ViperKey:    "llm.model",
			Description: "answer generation model name",
		},
		FlagChunkSize: {
			Name:        "chunk-size",
			ViperKey:    "segmenter.chunk_size",
			Description: "chunk size in characters",
		},
		FlagChunkOverlap: {
			Name:        "chunk-overlap",
			ViperKey:    "segmenter.chunk_overlap",
			Description: "overlap between consecutive chunks in characters",
		},
		FlagTopK: {
			Name:        "top-k",
			Shorthand:   "k",
			ViperKey:    "retrieval.top_k",
			Description: "number of chunks retrieved per question",
		},
		FlagEventsProv: {
			Name:        "events-provider",
			ViperKey:    "events.provider",
			Description: "ingestion event publisher (kafka, nop)",
		},
	}
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using
// definitions from the given FlagSet. Call this in PreRunE after InitViper
// to connect flags to the viper precedence chain
// (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}
