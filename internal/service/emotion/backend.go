package emotion

import (
	"context"
	"fmt"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/config"
)

// credentialHints names the environment variables checked for each provider.
var credentialHints = map[string]string{
	config.ProviderGemini:    "GEMINI_API_KEY or API_KEY",
	config.ProviderArk:       "ARK_API_KEY (or ARK_ACCESS_KEY and ARK_SECRET_KEY) and LLM_MODEL",
	config.ProviderOpenAI:    "OPENAI_API_KEY or API_KEY",
	config.ProviderAnthropic: "ANTHROPIC_API_KEY or API_KEY",
}

// NewBackend 根据配置选择提供方。缺少凭证时返回始终失败的 Backend，
// 让错误在分类时以统一的提示暴露给用户。
func NewBackend(ctx context.Context, cfg config.AIConfig) (Backend, error) {
	if !cfg.Enabled() {
		return NewUnconfiguredBackend(cfg.Provider, credentialHints[cfg.Provider]), nil
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiBackend(ctx, GeminiOptions{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
		})
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewArkBackend(ctx, chatModel)
	case config.ProviderOpenAI:
		return NewOpenAIBackend(OpenAIOptions{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	case config.ProviderAnthropic:
		return NewAnthropicBackend(AnthropicOptions{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
