package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider talks to the OpenAI chat completions API or any compatible
// endpoint (Groq, OpenRouter, a local server).
type OpenAIProvider struct {
	name      string
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIProvider creates a provider reporting itself as name. SDK-level
// retries are disabled.
func NewOpenAIProvider(name string, cfg Config, apiKey string) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		name:      name,
		client:    &client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return p.name }

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     shared.ChatModel(p.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		MaxTokens: openai.Int(int64(p.maxTokens)),
	})
	if err != nil {
		return "", wrapError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrapError(p.name, errors.New("response has no choices"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
