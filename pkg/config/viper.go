package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DotDirName is the config directory under the user's home.
const DotDirName = ".crewmatch"

// ResolveDir resolves the config directory: the override when given,
// otherwise ~/.crewmatch. An empty return means no directory could be
// resolved and file loading is skipped.
func ResolveDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	return filepath.Join(home, DotDirName), nil
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if one exists in the resolved directory), and binds environment
// variables with the CREWMATCH_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the commands)
//  2. Environment variables (CREWMATCH_PINECONE_API_KEY, CREWMATCH_API_LISTEN, ...)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := ResolveDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("CREWMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() under dotted
// keys, keeping defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("api.listen", d.API.Listen)

	v.SetDefault("pinecone.api_key", d.Pinecone.APIKey)
	v.SetDefault("pinecone.experience_host", d.Pinecone.ExperienceHost)
	v.SetDefault("pinecone.skills_host", d.Pinecone.SkillsHost)
	v.SetDefault("pinecone.namespace", d.Pinecone.Namespace)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.sparse_dimension", d.Embedding.SparseDimension)

	v.SetDefault("skills.provider", d.Skills.Provider)
	v.SetDefault("skills.gemini_api_key", d.Skills.GeminiAPIKey)
	v.SetDefault("skills.model", d.Skills.Model)

	v.SetDefault("match.top_k", d.Match.TopK)
	v.SetDefault("match.max_concurrency", d.Match.MaxConcurrency)
	v.SetDefault("match.fetch_k", d.Match.FetchK)
	v.SetDefault("match.dense_weight", d.Match.DenseWeight)
	v.SetDefault("match.sparse_weight", d.Match.SparseWeight)
	v.SetDefault("match.timeout_seconds", d.Match.TimeoutSeconds)

	v.SetDefault("profiles.sqlite_path", d.Profiles.SQLitePath)

	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}

// FromViper materializes a Config from the resolved viper state.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
		Pinecone: PineconeConfig{
			APIKey:         v.GetString("pinecone.api_key"),
			ExperienceHost: v.GetString("pinecone.experience_host"),
			SkillsHost:     v.GetString("pinecone.skills_host"),
			Namespace:      v.GetString("pinecone.namespace"),
		},
		Embedding: EmbeddingConfig{
			Provider:        v.GetString("embedding.provider"),
			Target:          v.GetString("embedding.target"),
			Model:           v.GetString("embedding.model"),
			SparseDimension: v.GetUint32("embedding.sparse_dimension"),
		},
		Skills: SkillsConfig{
			Provider:     v.GetString("skills.provider"),
			GeminiAPIKey: v.GetString("skills.gemini_api_key"),
			Model:        v.GetString("skills.model"),
		},
		Match: MatchConfig{
			TopK:           v.GetInt("match.top_k"),
			MaxConcurrency: v.GetInt("match.max_concurrency"),
			FetchK:         v.GetInt("match.fetch_k"),
			DenseWeight:    v.GetFloat64("match.dense_weight"),
			SparseWeight:   v.GetFloat64("match.sparse_weight"),
			TimeoutSeconds: v.GetInt("match.timeout_seconds"),
		},
		Profiles: ProfilesConfig{
			SQLitePath: v.GetString("profiles.sqlite_path"),
		},
		Events: EventsConfig{
			Provider: v.GetString("events.provider"),
			Brokers:  v.GetStringSlice("events.brokers"),
			Topic:    v.GetString("events.topic"),
		},
	}
}

// Validate checks the cross-field invariants that make every subsequent
// call certain to fail when broken. These abort the run immediately.
func (c *Config) Validate(needIndexes bool) error {
	if needIndexes {
		if c.Pinecone.APIKey == "" {
			return errors.New("pinecone api key is not configured (set CREWMATCH_PINECONE_API_KEY)")
		}
		if c.Pinecone.ExperienceHost == "" || c.Pinecone.SkillsHost == "" {
			return errors.New("both pinecone index hosts must be configured")
		}
	}

	if diff := c.Match.DenseWeight + c.Match.SparseWeight - 1; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("match weights must sum to 1, got %v + %v",
			c.Match.DenseWeight, c.Match.SparseWeight)
	}

	if c.Skills.Provider == "gemini" && c.Skills.GeminiAPIKey == "" {
		return errors.New("gemini skill extraction requires an api key (set CREWMATCH_SKILLS_GEMINI_API_KEY)")
	}

	if c.Events.Provider == "kafka" && len(c.Events.Brokers) == 0 {
		return errors.New("kafka events require at least one broker")
	}

	return nil
}
