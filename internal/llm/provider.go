// Package llm sends single-prompt completions to hosted language models.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGroq         = "groq"
	ProviderOpenAI       = "openai"
	ProviderOpenAICompat = "openai-compat"
	ProviderAnthropic    = "anthropic"
	ProviderGemini       = "gemini"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// ErrMissingAPIKey is returned by New when no credential was supplied.
var ErrMissingAPIKey = errors.New("api key is required")

// Provider completes one prompt sent as a single user message.
type Provider interface {
	// Name identifies the provider in errors and logs.
	Name() string
	// Complete returns the model's reply with surrounding whitespace trimmed.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a provider. The API key is not part of it; it
// comes from the user's session.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	MaxTokens int
}

// Validate checks the fields every provider needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "":
		return fmt.Errorf("provider is required")
	case ProviderGroq, ProviderOpenAI, ProviderOpenAICompat, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unsupported provider: %s (supported: groq, openai, openai-compat, anthropic, gemini)", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Provider == ProviderOpenAICompat && c.BaseURL == "" {
		return fmt.Errorf("base_url is required for %s", ProviderOpenAICompat)
	}
	return nil
}

// New builds a provider for one request using the session's API key.
func New(cfg Config, apiKey string) (Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderGroq:
		if cfg.BaseURL == "" {
			cfg.BaseURL = GroqBaseURL
		}
		return NewOpenAIProvider(ProviderGroq, cfg, apiKey), nil
	case ProviderOpenAI, ProviderOpenAICompat:
		return NewOpenAIProvider(cfg.Provider, cfg, apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg, apiKey), nil
	case ProviderGemini:
		return NewGeminiProvider(cfg, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: groq, openai, openai-compat, anthropic, gemini)", cfg.Provider)
	}
}
