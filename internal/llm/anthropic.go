package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider uses the Anthropic Messages API.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicProvider creates an Anthropic provider with SDK retries disabled.
func NewAnthropicProvider(cfg Config, apiKey string) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{
		client:    &client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

// Complete implements Provider. Text blocks of the reply are concatenated.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapError(ProviderAnthropic, err)
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", wrapError(ProviderAnthropic, errors.New("response has no text content"))
	}
	return strings.TrimSpace(b.String()), nil
}
