package config

import (
	"os"
	"path/filepath"
	"time"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 3 * time.Minute
	}
	if cfg.Upload.Extensions == nil {
		cfg.Upload.Extensions = []string{".pdf"}
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 10
	}
	if cfg.Embedding.Backend == "" {
		cfg.Embedding.Backend = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/resumatch/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.VocabPath == "" {
		cfg.Embedding.VocabPath = defaultVocabPath(cfg.Embedding.ModelPath)
	}
	if cfg.Embedding.OutputName == "" {
		cfg.Embedding.OutputName = "last_hidden_state"
	}
	if cfg.Embedding.Pooling == "" {
		cfg.Embedding.Pooling = "mean"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1000
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "groq"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama-3.1-8b-instant"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2048
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 120 * time.Second
	}
	if cfg.LLM.RateLimitPerMinute == 0 {
		cfg.LLM.RateLimitPerMinute = 10
	}
	if cfg.Render.OutputDir == "" {
		cfg.Render.OutputDir = filepath.Join(os.TempDir(), "resumatch")
	}
	if cfg.Render.FontFamily == "" {
		cfg.Render.FontFamily = "Arial"
	}
	if cfg.Render.FontSize == 0 {
		cfg.Render.FontSize = 12
	}
	if cfg.Render.Margin == 0 {
		cfg.Render.Margin = 15
	}
	if cfg.Render.LineHeight == 0 {
		cfg.Render.LineHeight = 10
	}
	if cfg.Session.DatabasePath == "" {
		cfg.Session.DatabasePath = ":memory:"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 2 * time.Hour
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "resumatch_session"
	}
}

// defaultVocabPath is the vocab.txt shipped beside a sentence-transformers model.
func defaultVocabPath(modelPath string) string {
	return filepath.Join(filepath.Dir(modelPath), "vocab.txt")
}
