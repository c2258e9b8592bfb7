package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

// keyAccessor reads and writes one dotted config key on a Config.
type keyAccessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

// configKeys registers every key the `config get|set|list` commands expose.
var configKeys = map[string]keyAccessor{
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"pinecone.experience_host": {
		get: func(c *Config) string { return c.Pinecone.ExperienceHost },
		set: func(c *Config, v string) error { c.Pinecone.ExperienceHost = v; return nil },
	},
	"pinecone.skills_host": {
		get: func(c *Config) string { return c.Pinecone.SkillsHost },
		set: func(c *Config, v string) error { c.Pinecone.SkillsHost = v; return nil },
	},
	"pinecone.namespace": {
		get: func(c *Config) string { return c.Pinecone.Namespace },
		set: func(c *Config, v string) error { c.Pinecone.Namespace = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"skills.provider": {
		get: func(c *Config) string { return c.Skills.Provider },
		set: func(c *Config, v string) error {
			if v != "gemini" && v != "keyword" {
				return fmt.Errorf("skills.provider must be gemini or keyword, got %q", v)
			}
			c.Skills.Provider = v
			return nil
		},
	},
	"skills.model": {
		get: func(c *Config) string { return c.Skills.Model },
		set: func(c *Config, v string) error { c.Skills.Model = v; return nil },
	},
	"match.top_k": {
		get: func(c *Config) string { return strconv.Itoa(c.Match.TopK) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Match.TopK, v) },
	},
	"match.max_concurrency": {
		get: func(c *Config) string { return strconv.Itoa(c.Match.MaxConcurrency) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Match.MaxConcurrency, v) },
	},
	"match.fetch_k": {
		get: func(c *Config) string { return strconv.Itoa(c.Match.FetchK) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Match.FetchK, v) },
	},
	"match.dense_weight": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Match.DenseWeight, 'f', -1, 64) },
		set: func(c *Config, v string) error { return setWeight(&c.Match.DenseWeight, v) },
	},
	"match.sparse_weight": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Match.SparseWeight, 'f', -1, 64) },
		set: func(c *Config, v string) error { return setWeight(&c.Match.SparseWeight, v) },
	},
	"match.timeout_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Match.TimeoutSeconds) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("expected a non-negative integer, got %q", v)
			}
			c.Match.TimeoutSeconds = n
			return nil
		},
	},
	"profiles.sqlite_path": {
		get: func(c *Config) string { return c.Profiles.SQLitePath },
		set: func(c *Config, v string) error { c.Profiles.SQLitePath = v; return nil },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error {
			if v != "kafka" && v != "none" {
				return fmt.Errorf("events.provider must be kafka or none, got %q", v)
			}
			c.Events.Provider = v
			return nil
		},
	},
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error {
			c.Events.Brokers = nil
			for _, b := range strings.Split(v, ",") {
				if b = strings.TrimSpace(b); b != "" {
					c.Events.Brokers = append(c.Events.Brokers, b)
				}
			}
			return nil
		},
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}

func setPositiveInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fmt.Errorf("expected a positive integer, got %q", v)
	}
	*dst = n
	return nil
}

func setWeight(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fmt.Errorf("expected a weight in [0,1], got %q", v)
	}
	*dst = f
	return nil
}

// ValidConfigKeys returns the sorted list of supported configuration keys.
func ValidConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsValidConfigKey returns true if the key is supported.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// Configer reads and writes config.toml for the `config` subcommands.
type Configer struct {
	targetPath string
}

// NewConfiger resolves the config file location. The override, when set,
// replaces the default ~/.crewmatch directory.
func NewConfiger(override string) (*Configer, error) {
	target, err := ResolveDir(override)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return &Configer{}, nil
	}

	path := filepath.Join(target, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return &Configer{targetPath: path}, nil
}

// GetTarget returns the resolved config file path, empty when none.
func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads config.toml, layering file values over the defaults.
// A missing file yields the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	cfg := NewDefaultConfig()

	if c.targetPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(c.targetPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.targetPath, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.targetPath, err)
	}
	return cfg, nil
}

// SaveConfig writes the config back to config.toml, creating the directory
// when needed.
func (c *Configer) SaveConfig(cfg *Config) error {
	if c.targetPath == "" {
		return errors.New("no config directory could be resolved")
	}

	if err := os.MkdirAll(filepath.Dir(c.targetPath), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.targetPath, err)
	}
	return nil
}

// GetConfigValue returns the value of one dotted key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	acc, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return acc.get(cfg), nil
}

// SetConfigValue updates one dotted key and saves the file.
func (c *Configer) SetConfigValue(key, value string) error {
	acc, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if err := acc.set(cfg, value); err != nil {
		return err
	}
	return c.SaveConfig(cfg)
}
