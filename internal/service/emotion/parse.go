package emotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	analysis "github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

type classifierPayload struct {
	Emotion   string   `json:"emotion"`
	Sentiment string   `json:"sentiment"`
	Score     *float64 `json:"score"`
}

// parseReply 解析并校验模型回复，任何字段不合法都返回错误。
func parseReply(content string) (analysis.Result, error) {
	payload, err := parseClassifierOutput(content)
	if err != nil {
		return analysis.Result{}, err
	}

	label, ok := analysis.ParseEmotion(payload.Emotion)
	if !ok {
		return analysis.Result{}, fmt.Errorf("unexpected emotion %q", payload.Emotion)
	}
	sentiment, ok := analysis.ParseSentiment(payload.Sentiment)
	if !ok {
		return analysis.Result{}, fmt.Errorf("unexpected sentiment %q", payload.Sentiment)
	}
	if payload.Score == nil {
		return analysis.Result{}, errors.New("score missing from reply")
	}

	return analysis.NewResult(label, sentiment, *payload.Score)
}

// parseClassifierOutput 解析大模型返回的 JSON。
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := cleanJSONResponse(content)
	if trimmed == "" {
		return nil, errors.New("empty model reply")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed), payload); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return payload, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
