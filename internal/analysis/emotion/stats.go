package emotion

// EmotionCount is one row of the emotion distribution.
type EmotionCount struct {
	Emotion Emotion `json:"emotion"`
	Count   int     `json:"count"`
}

// SentimentCount is one row of the sentiment distribution.
type SentimentCount struct {
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
}

// Stats 汇总历史分类结果。每个分布都覆盖完整枚举，计数之和等于 Total。
type Stats struct {
	Total      int              `json:"total"`
	Emotions   []EmotionCount   `json:"emotions"`
	Sentiments []SentimentCount `json:"sentiments"`
}

// Summarize computes distributions over the given results.
func Summarize(results []Result) Stats {
	emotionCounts := make(map[Emotion]int, len(emotions))
	sentimentCounts := make(map[Sentiment]int, len(sentiments))
	for _, r := range results {
		emotionCounts[r.Emotion]++
		sentimentCounts[r.Sentiment]++
	}

	stats := Stats{
		Total:      len(results),
		Emotions:   make([]EmotionCount, 0, len(emotions)),
		Sentiments: make([]SentimentCount, 0, len(sentiments)),
	}
	for _, e := range emotions {
		stats.Emotions = append(stats.Emotions, EmotionCount{Emotion: e, Count: emotionCounts[e]})
	}
	for _, s := range sentiments {
		stats.Sentiments = append(stats.Sentiments, SentimentCount{Sentiment: s, Count: sentimentCounts[s]})
	}
	return stats
}
