package emotion

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	analysis "github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

// GeminiOptions configures the Gemini backend.
type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
}

type geminiBackend struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiBackend 创建 Gemini 客户端，并以 ResponseSchema 约束输出结构。
func NewGeminiBackend(ctx context.Context, opts GeminiOptions) (Backend, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiResponseSchema(),
	}
	if opts.Temperature != nil {
		temperature := float32(*opts.Temperature)
		config.Temperature = &temperature
	}

	return &geminiBackend{
		client: client,
		model:  opts.Model,
		config: config,
	}, nil
}

func geminiResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"emotion": {
				Type:        genai.TypeString,
				Enum:        analysis.EmotionValues(),
				Description: emotionFieldDescription,
			},
			"sentiment": {
				Type:        genai.TypeString,
				Enum:        analysis.SentimentValues(),
				Description: sentimentFieldDescription,
			},
			"score": {
				Type:        genai.TypeNumber,
				Description: scoreFieldDescription,
			},
		},
		Required:         requiredFields,
		PropertyOrdering: requiredFields,
	}
}

func (b *geminiBackend) Name() string {
	return "gemini"
}

func (b *geminiBackend) Generate(ctx context.Context, promptText string) (string, error) {
	res, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(promptText), b.config)
	if err != nil {
		return "", err
	}

	// Blocked prompts come back without candidates.
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no content")
	}

	return res.Candidates[0].Content.Parts[0].Text, nil
}
