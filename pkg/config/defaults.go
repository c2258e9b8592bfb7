package config

const (
	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// NewDefaultConfig returns the fully-populated default configuration.
// It is the single source of truth for defaults; viper and the Configer
// both seed from it.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: ":8080",
		},
		Pinecone: PineconeConfig{
			Namespace: "",
		},
		Embedding: EmbeddingConfig{
			Provider:        "ollama",
			Target:          "http://localhost:11434",
			Model:           "nomic-embed-text",
			SparseDimension: 0, // encoder default
		},
		Skills: SkillsConfig{
			Provider: "keyword",
			Model:    "gemini-2.0-flash",
		},
		Match: MatchConfig{
			TopK:           10,
			MaxConcurrency: 5,
			FetchK:         50,
			DenseWeight:    0.6,
			SparseWeight:   0.4,
			TimeoutSeconds: 0,
		},
		Profiles: ProfilesConfig{
			SQLitePath: "crewmatch.db",
		},
		Events: EventsConfig{
			Provider: "none",
			Topic:    "crewmatch.batches",
		},
	}
}
