package emotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// arkBackend 使用 eino chain（提示词模板 + ChatModel）调用方舟模型。
type arkBackend struct {
	classifier compose.Runnable[map[string]any, *schema.Message]
}

// NewArkBackend 编译分类 chain。chatModel 通常来自 config.AIConfig.NewChatModel。
func NewArkBackend(ctx context.Context, chatModel model.ChatModel) (Backend, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}

	return &arkBackend{classifier: runnable}, nil
}

func (b *arkBackend) Name() string {
	return "ark"
}

func (b *arkBackend) Generate(ctx context.Context, promptText string) (string, error) {
	msg, err := b.classifier.Invoke(ctx, map[string]any{"prompt": promptText})
	if err != nil {
		return "", fmt.Errorf("classifier invoke failed: %w", err)
	}
	if msg == nil {
		return "", errors.New("classifier returned no message")
	}
	return msg.Content, nil
}
