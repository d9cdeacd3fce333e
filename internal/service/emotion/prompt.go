package emotion

import (
	"fmt"
	"strings"

	analysis "github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

const classifyPromptFormat = `Analyze the primary emotion and overall sentiment of the following text. For emotion, classify it as %s. For sentiment, classify it as %s. Provide a confidence score between 0 and 1 for the emotion. Text: "%s"`

// BuildPrompt embeds the literal text into the classification instruction.
func BuildPrompt(text string) string {
	return fmt.Sprintf(classifyPromptFormat,
		quoteChoices(analysis.EmotionValues()),
		quoteChoices(analysis.SentimentValues()),
		text)
}

// systemPrompt declares the reply contract for providers without native
// response schemas. It must stay free of braces: the ark chain renders it
// as an FString template.
var systemPrompt = fmt.Sprintf("You are an emotion classification service. Reply with a single JSON object and no other text. "+
	"Required fields: emotion (string, exactly one of %s), sentiment (string, exactly one of %s), "+
	"score (number between 0 and 1, the confidence for the emotion).",
	strings.Join(analysis.EmotionValues(), ", "),
	strings.Join(analysis.SentimentValues(), ", "))

const (
	emotionFieldDescription   = "The primary emotion of the text."
	sentimentFieldDescription = "The overall sentiment of the text."
	scoreFieldDescription     = "Confidence score for the emotion, from 0 to 1."
)

var requiredFields = []string{"emotion", "sentiment", "score"}

// quoteChoices renders ["A","B","C"] as `"A", "B", or "C"`.
func quoteChoices(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
	}
}
