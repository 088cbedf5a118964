package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider uses the Gemini API through google.golang.org/genai.
type GeminiProvider struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
}

// NewGeminiProvider creates a Gemini provider. The client is built per call
// since it is bound to the caller's context.
func NewGeminiProvider(cfg Config, apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return ProviderGemini }

// Complete implements Provider.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", wrapError(ProviderGemini, err)
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.maxTokens),
	})
	if err != nil {
		return "", wrapError(ProviderGemini, err)
	}
	text := resp.Text()
	if text == "" {
		return "", wrapError(ProviderGemini, errors.New("response has no text content"))
	}
	return strings.TrimSpace(text), nil
}
