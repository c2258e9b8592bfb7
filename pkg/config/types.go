// Package config is the configuration layer: defaults, the config.toml
// read/write Configer behind the `config` subcommands, and the viper
// loader that merges file, environment, and flag values.
package config

// Config is the full crewmatch configuration.
type Config struct {
	Version int `toml:"version"`

	API       APIConfig       `toml:"api"`
	Pinecone  PineconeConfig  `toml:"pinecone"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Skills    SkillsConfig    `toml:"skills"`
	Match     MatchConfig     `toml:"match"`
	Profiles  ProfilesConfig  `toml:"profiles"`
	Events    EventsConfig    `toml:"events"`
}

// APIConfig configures the HTTP API server.
type APIConfig struct {
	// Listen is the address the API server binds (e.g. ":8080").
	Listen string `toml:"listen"`
}

// PineconeConfig configures the two index handles.
type PineconeConfig struct {
	// APIKey is the Pinecone API key. Usually set via
	// CREWMATCH_PINECONE_API_KEY rather than the file.
	APIKey string `toml:"api_key"`

	// ExperienceHost is the dense index host ("resume-experience").
	ExperienceHost string `toml:"experience_host"`

	// SkillsHost is the sparse index host ("resume-skills").
	SkillsHost string `toml:"skills_host"`

	// Namespace scopes all index operations.
	Namespace string `toml:"namespace"`
}

// EmbeddingConfig configures the dense embedding provider and the local
// sparse encoder.
type EmbeddingConfig struct {
	Provider string `toml:"provider"`
	Target   string `toml:"target"`
	Model    string `toml:"model"`

	// SparseDimension is the hashed index space of the sparse encoder.
	SparseDimension uint32 `toml:"sparse_dimension"`
}

// SkillsConfig configures skill extraction.
type SkillsConfig struct {
	// Provider selects the extractor: "gemini" or "keyword".
	Provider string `toml:"provider"`

	// GeminiAPIKey is required for the gemini provider.
	GeminiAPIKey string `toml:"gemini_api_key"`

	// Model is the Gemini model name.
	Model string `toml:"model"`
}

// MatchConfig holds the matching engine's operational knobs.
type MatchConfig struct {
	TopK           int     `toml:"top_k"`
	MaxConcurrency int     `toml:"max_concurrency"`
	FetchK         int     `toml:"fetch_k"`
	DenseWeight    float64 `toml:"dense_weight"`
	SparseWeight   float64 `toml:"sparse_weight"`

	// TimeoutSeconds is the whole-batch deadline. Zero disables it.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ProfilesConfig configures the candidate profile store.
type ProfilesConfig struct {
	// SQLitePath is the profile database path; ":memory:" is allowed.
	SQLitePath string `toml:"sqlite_path"`
}

// EventsConfig configures batch event publishing.
type EventsConfig struct {
	// Provider selects the publisher: "kafka" or "none".
	Provider string `toml:"provider"`

	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}
