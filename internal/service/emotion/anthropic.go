package emotion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 256

// AnthropicOptions configures the Claude backend.
type AnthropicOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
	MaxTokens   *int
}

type anthropicBackend struct {
	client      *anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature *float64
}

// NewAnthropicBackend 通过系统提示词声明 JSON 输出约定。
func NewAnthropicBackend(opts AnthropicOptions, extra ...option.RequestOption) Backend {
	requestOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}
	requestOpts = append(requestOpts, extra...)

	maxTokens := int64(defaultAnthropicMaxTokens)
	if opts.MaxTokens != nil {
		maxTokens = int64(*opts.MaxTokens)
	}

	client := anthropic.NewClient(requestOpts...)
	return &anthropicBackend{
		client:      &client,
		model:       anthropic.Model(opts.Model),
		maxTokens:   maxTokens,
		temperature: opts.Temperature,
	}
}

func (b *anthropicBackend) Name() string {
	return "anthropic"
}

func (b *anthropicBackend) Generate(ctx context.Context, promptText string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(promptText)),
		},
	}
	if b.temperature != nil {
		params.Temperature = anthropic.Float(*b.temperature)
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var builder strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	if builder.Len() == 0 {
		return "", errors.New("no response from anthropic")
	}
	return builder.String(), nil
}
