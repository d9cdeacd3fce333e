package emotion

import (
	"fmt"
	"math"
)

// Emotion 表示模型可返回的主要情绪标签。
type Emotion string

const (
	Joy      Emotion = "Joy"
	Sadness  Emotion = "Sadness"
	Anger    Emotion = "Anger"
	Fear     Emotion = "Fear"
	Surprise Emotion = "Surprise"
	// NeutralEmotion shares its wire value with NeutralSentiment.
	NeutralEmotion Emotion = "Neutral"
)

// Sentiment 表示文本整体的情感倾向。
type Sentiment string

const (
	Positive         Sentiment = "Positive"
	Negative         Sentiment = "Negative"
	NeutralSentiment Sentiment = "Neutral"
)

var emotions = []Emotion{Joy, Sadness, Anger, Fear, Surprise, NeutralEmotion}

var sentiments = []Sentiment{Positive, Negative, NeutralSentiment}

// Emotions returns every emotion in canonical order.
func Emotions() []Emotion {
	return append([]Emotion(nil), emotions...)
}

// Sentiments returns every sentiment in canonical order.
func Sentiments() []Sentiment {
	return append([]Sentiment(nil), sentiments...)
}

// EmotionValues returns the wire values, used when declaring output schemas.
func EmotionValues() []string {
	values := make([]string, 0, len(emotions))
	for _, e := range emotions {
		values = append(values, string(e))
	}
	return values
}

// SentimentValues returns the wire values, used when declaring output schemas.
func SentimentValues() []string {
	values := make([]string, 0, len(sentiments))
	for _, s := range sentiments {
		values = append(values, string(s))
	}
	return values
}

// Valid 判断标签是否属于枚举集合。
func (e Emotion) Valid() bool {
	for _, candidate := range emotions {
		if candidate == e {
			return true
		}
	}
	return false
}

// Valid 判断标签是否属于枚举集合。
func (s Sentiment) Valid() bool {
	for _, candidate := range sentiments {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEmotion matches the exact wire value. Model replies are expected to
// honour the declared enum, so case or whitespace variants are rejected.
func ParseEmotion(raw string) (Emotion, bool) {
	e := Emotion(raw)
	if !e.Valid() {
		return "", false
	}
	return e, true
}

// ParseSentiment matches the exact wire value.
func ParseSentiment(raw string) (Sentiment, bool) {
	s := Sentiment(raw)
	if !s.Valid() {
		return "", false
	}
	return s, true
}

// Result 是一次分类的结果，只能通过 NewResult 构造。
type Result struct {
	Emotion   Emotion   `json:"emotion"`
	Sentiment Sentiment `json:"sentiment"`
	Score     float64   `json:"score"`
}

// NewResult validates enum membership and the score bounds.
func NewResult(e Emotion, s Sentiment, score float64) (Result, error) {
	if !e.Valid() {
		return Result{}, fmt.Errorf("emotion %q is not one of %v", e, EmotionValues())
	}
	if !s.Valid() {
		return Result{}, fmt.Errorf("sentiment %q is not one of %v", s, SentimentValues())
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		return Result{}, fmt.Errorf("score %v is outside [0,1]", score)
	}
	return Result{Emotion: e, Sentiment: s, Score: score}, nil
}

// Percent renders the confidence as a whole percentage.
func (r Result) Percent() int {
	return int(math.Round(r.Score * 100))
}
