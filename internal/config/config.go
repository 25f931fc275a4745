// Package config loads roadwise configuration.
//
// Precedence, lowest to highest:
//  1. Built-in defaults
//  2. YAML config file (explicit path or ~/.roadwise/config.yaml)
//  3. Environment variables (ROADWISE_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roadwise/roadwise/configs"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "15m".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the full roadwise configuration.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Search     SearchConfig     `yaml:"search"`
	Cache      CacheConfig      `yaml:"cache"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CorpusConfig locates the corpus and optional rules override.
type CorpusConfig struct {
	// Path is the corpus JSON file.
	Path string `yaml:"path"`
	// RulesPath overrides the embedded retrieval rules when set.
	RulesPath string `yaml:"rules_path"`
}

// SearchConfig tunes retrieval.
type SearchConfig struct {
	TopK            int `yaml:"top_k"`
	MaxContextChars int `yaml:"max_context_chars"`
}

// CacheConfig bounds the query cache.
type CacheConfig struct {
	Size int      `yaml:"size"`
	TTL  Duration `yaml:"ttl"`
}

// GenerationConfig configures the answer backend. An empty APIKey
// disables generation; the pipeline then answers from context alone.
type GenerationConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	Temperature float64  `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file"`
	Stderr   bool   `yaml:"stderr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Path: filepath.Join("data", "knowledge_base.json"),
		},
		Search: SearchConfig{
			TopK:            5,
			MaxContextChars: 2500,
		},
		Cache: CacheConfig{
			Size: 1024,
			TTL:  Duration(time.Hour),
		},
		Generation: GenerationConfig{
			BaseURL:     "https://api.x.ai",
			Model:       "grok-4-0709",
			Temperature: 0.05,
			Timeout:     Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Stderr: true,
		},
	}
}

// UserConfigPath returns ~/.roadwise/config.yaml.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".roadwise", "config.yaml")
}

// Load builds the effective configuration. path may be empty, in
// which case the user config file is used when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if p := UserConfigPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies ROADWISE_* environment overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ROADWISE_CORPUS"); v != "" {
		c.Corpus.Path = v
	}
	if v := os.Getenv("ROADWISE_RULES"); v != "" {
		c.Corpus.RulesPath = v
	}
	if v := os.Getenv("ROADWISE_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.TopK = n
		}
	}
	if v := os.Getenv("ROADWISE_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.Size = n
		}
	}
	if v := os.Getenv("ROADWISE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = Duration(d)
		}
	}
	if v := os.Getenv("ROADWISE_BASE_URL"); v != "" {
		c.Generation.BaseURL = v
	}
	if v := os.Getenv("XAI_API_KEY"); v != "" {
		c.Generation.APIKey = v
	}
	if v := os.Getenv("ROADWISE_MODEL"); v != "" {
		c.Generation.Model = v
	}
	if v := os.Getenv("ROADWISE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ROADWISE_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Corpus.Path == "" {
		return fmt.Errorf("config: corpus.path is required")
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("config: search.top_k must be positive")
	}
	if c.Search.MaxContextChars <= 0 {
		return fmt.Errorf("config: search.max_context_chars must be positive")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("config: cache.size cannot be negative")
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("config: generation.timeout must be positive")
	}
	return nil
}

// WriteTemplate writes the example config to path, refusing to clobber
// an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, configs.ConfigTemplate, 0o644)
}
