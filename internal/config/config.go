// Package config provides configuration loading for the Kotaeru server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. Provider base URLs
// and model names left empty fall back to the provider package defaults.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Session    SessionConfig    `yaml:"session"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server settings. TimeoutSeconds bounds a whole
// request including streamed responses.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ChunkingConfig holds the chunk window geometry.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider is one of "openai", "ollama", or "mock".
	Provider       string               `yaml:"provider"`
	BaseURL        string               `yaml:"base_url"`
	Model          string               `yaml:"model"`
	MaxBatchSize   int                  `yaml:"max_batch_size"`
	MaxBatchChars  int                  `yaml:"max_batch_chars"`
	Concurrency    int                  `yaml:"concurrency"`
	TimeoutSeconds int                  `yaml:"timeout_seconds"`
	Cache          EmbeddingCacheConfig `yaml:"cache"`
}

// EmbeddingCacheConfig holds embedding cache settings. Path selects the
// SQLite file for the persistent layer; empty keeps the cache memory-only.
type EmbeddingCacheConfig struct {
	Entries int    `yaml:"entries"`
	Path    string `yaml:"path"`
}

// GenerationConfig holds completion provider settings.
type GenerationConfig struct {
	// Provider is one of "openai", "ollama", or "mock".
	Provider       string  `yaml:"provider"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// RetrievalConfig holds retrieval and fusion settings.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	MinScore       float64 `yaml:"min_score"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	SemanticWeight float64 `yaml:"semantic_weight"`
}

// SessionConfig holds chat session settings.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	MaxTurns   int `yaml:"max_turns"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true
// when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// LoggingConfig holds log output settings. File enables a rotating log file
// next to stdout.
type LoggingConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a config with every default applied, for running without
// a config file.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, applies defaults, and
// expands relative paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Embedding.Cache.Path = expandPath(cfg.Embedding.Cache.Path, configDir)
	cfg.Logging.File = expandPath(cfg.Logging.File, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Validate rejects configurations that cannot work, most importantly a
// chunk overlap that is not smaller than the chunk size.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking: chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 {
		return fmt.Errorf("chunking: chunk_overlap cannot be negative, got %d", c.Chunking.ChunkOverlap)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunking: chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}
	for _, provider := range []string{c.Embedding.Provider, c.Generation.Provider} {
		switch provider {
		case "openai", "ollama", "mock":
		default:
			return fmt.Errorf("unknown provider %q", provider)
		}
	}
	if c.Retrieval.KeywordWeight < 0 || c.Retrieval.SemanticWeight < 0 {
		return fmt.Errorf("retrieval: fusion weights cannot be negative")
	}
	return nil
}

// expandPath converts a path to absolute. Empty paths stay empty. Paths
// starting with "./" are relative to configDir; other relative paths are
// relative to the home directory.
func expandPath(path, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
