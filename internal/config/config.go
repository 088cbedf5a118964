// Package config provides configuration loading and structs for the resumatch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// The LLM API key is deliberately absent: it is entered per session in the UI.
type Config struct {
	Debug     bool            `yaml:"debug" toml:"debug"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Upload    UploadConfig    `yaml:"upload" toml:"upload"`
	Embedding EmbeddingConfig `yaml:"embedding" toml:"embedding"`
	LLM       LLMConfig       `yaml:"llm" toml:"llm"`
	Render    RenderConfig    `yaml:"render" toml:"render"`
	Session   SessionConfig   `yaml:"session" toml:"session"`
	Prompts   PromptsConfig   `yaml:"prompts" toml:"prompts"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
	// RequestTimeout bounds a whole request, including the remote model call.
	RequestTimeout time.Duration `yaml:"request_timeout" toml:"request_timeout"`
}

// UploadConfig controls which résumé files the UI accepts.
type UploadConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
	MaxSizeMB  int      `yaml:"max_size_mb" toml:"max_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}

// Accepts reports whether ext (with leading dot, any case) is an allowed upload extension.
func (u *UploadConfig) Accepts(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range u.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	// Backend is "onnx" (default) or "hash". The ONNX backend falls back to hash
	// when the runtime or model cannot be loaded.
	Backend    string `yaml:"backend" toml:"backend"`
	ModelPath  string `yaml:"model_path" toml:"model_path"`
	// VocabPath defaults to vocab.txt beside the model. Without it the ONNX
	// backend falls back to hash.
	VocabPath  string `yaml:"vocab_path" toml:"vocab_path"`
	// OutputName and Pooling default to a standard sentence-transformers
	// export: "last_hidden_state" with "mean". Use "none" when the exported
	// model already pools.
	OutputName string `yaml:"output_name" toml:"output_name"`
	Pooling    string `yaml:"pooling" toml:"pooling"`
	Dimensions int    `yaml:"dimensions" toml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens" toml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size" toml:"cache_size"`

	// ChunkWords > 0 scores long texts as averaged windows of that many words.
	ChunkWords   int `yaml:"chunk_words" toml:"chunk_words"`
	ChunkOverlap int `yaml:"chunk_overlap" toml:"chunk_overlap"`
}

// LLMConfig selects the remote language model.
type LLMConfig struct {
	Provider           string        `yaml:"provider" toml:"provider"`
	Model              string        `yaml:"model" toml:"model"`
	BaseURL            string        `yaml:"base_url" toml:"base_url"`
	MaxTokens          int           `yaml:"max_tokens" toml:"max_tokens"`
	Timeout            time.Duration `yaml:"timeout" toml:"timeout"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" toml:"rate_limit_per_minute"`
}

// RenderConfig holds PDF layout settings.
type RenderConfig struct {
	OutputDir  string  `yaml:"output_dir" toml:"output_dir"`
	FontFamily string  `yaml:"font_family" toml:"font_family"`
	FontSize   float64 `yaml:"font_size" toml:"font_size"`
	Margin     float64 `yaml:"margin" toml:"margin"`
	LineHeight float64 `yaml:"line_height" toml:"line_height"`
	Compress   *bool   `yaml:"compress" toml:"compress"`
}

// CompressOrDefault returns whether to compress PDF streams; defaults to true when unset.
func (r *RenderConfig) CompressOrDefault() bool {
	if r.Compress != nil {
		return *r.Compress
	}
	return true
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	// DatabasePath is a SQLite DSN. The default keeps sessions in memory only.
	DatabasePath string        `yaml:"database_path" toml:"database_path"`
	TTL          time.Duration `yaml:"ttl" toml:"ttl"`
	CookieName   string        `yaml:"cookie_name" toml:"cookie_name"`
}

// PromptsConfig points at optional template overrides.
type PromptsConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Files ending in .toml are parsed as TOML; everything else as YAML.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	vocabUnset := cfg.Embedding.VocabPath == ""
	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if vocabUnset {
		cfg.Embedding.VocabPath = defaultVocabPath(cfg.Embedding.ModelPath)
	} else {
		cfg.Embedding.VocabPath = expandPath(cfg.Embedding.VocabPath, configDir)
	}
	cfg.Render.OutputDir = expandPath(cfg.Render.OutputDir, configDir)
	cfg.Prompts.Dir = expandPath(cfg.Prompts.Dir, configDir)
	if !isSQLiteMemoryDSN(cfg.Session.DatabasePath) {
		cfg.Session.DatabasePath = expandPath(cfg.Session.DatabasePath, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
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

func isSQLiteMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}
