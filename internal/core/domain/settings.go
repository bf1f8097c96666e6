package domain

// Pipeline providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderCohere = "cohere"
)

// IndexSettings configures the vector index backend.
type IndexSettings struct {
	// Backend selects the index implementation: "opensearch" or "memory".
	Backend string

	// Name is the index name.
	Name string

	// Address is the cluster endpoint (opensearch only).
	Address string

	// Username and Password are the basic auth credentials (opensearch only).
	Username string
	Password string
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// GenerationSettings configures the generation provider.
type GenerationSettings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// IngestSettings configures the ingestion pipeline.
type IngestSettings struct {
	// Workers is the page worker pool size.
	Workers int
}

// RetrievalSettings configures retrieval behaviour.
type RetrievalSettings struct {
	// EnforceThreshold drops passages scoring below the session's
	// similarity threshold. Off by default: the threshold is carried as
	// a tunable but only filters when explicitly enabled.
	EnforceThreshold bool
}

// AppSettings is the full application configuration.
type AppSettings struct {
	Index      IndexSettings
	Embedding  EmbeddingSettings
	Generation GenerationSettings
	Ingest     IngestSettings
	Retrieval  RetrievalSettings
	Session    SessionParams
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Index: IndexSettings{
			Backend: "opensearch",
			Name:    "documents",
			Address: "https://localhost:9200",
		},
		Embedding: EmbeddingSettings{
			Provider:   ProviderOpenAI,
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Generation: GenerationSettings{
			Provider: ProviderCohere,
			Model:    "command",
		},
		Ingest: IngestSettings{
			Workers: 4,
		},
		Retrieval: RetrievalSettings{
			EnforceThreshold: false,
		},
		Session: DefaultSessionParams(),
	}
}
