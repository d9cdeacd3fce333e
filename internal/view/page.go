package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/model/dashboard"
)

// PanelKind 表示结果区域当前显示的面板，同一时刻只显示一个。
type PanelKind string

const (
	PanelIdle    PanelKind = "idle"
	PanelLoading PanelKind = "loading"
	PanelError   PanelKind = "error"
	PanelResult  PanelKind = "result"
)

const (
	Title               = "Emotion Analysis Dashboard"
	TextPlaceholder     = "e.g., 'I can't believe we won the championship! I'm absolutely ecstatic and bursting with joy! This is the best day ever.'"
	IdleHeading         = "Results will appear here"
	IdleHint            = `Enter some text and click "Analyze Emotion" to begin.`
	ReportPlaceholder   = "No analyses performed yet. Analyze some text to build the report."
	ButtonLabel         = "Analyze Emotion"
	ButtonLabelLoading  = "Analyzing..."
	defaultProviderName = "Gemini"

	reportTextLimit = 80
)

// Options carries presentation settings that are not part of the state.
type Options struct {
	ProviderName string
}

// Page is the fully derived view model of the dashboard.
type Page struct {
	Title          string
	Subtitle       string
	Text           string
	Placeholder    string
	InputDisabled  bool
	ButtonLabel    string
	ButtonDisabled bool
	IsLoading      bool

	Panel          PanelKind
	ErrorMessage   string
	LoadingMessage string
	IdleHeading    string
	IdleHint       string
	Result         *ResultCard

	Stats *StatsBlock

	Report            []ReportRow
	ReportPlaceholder string
}

// ResultCard renders a single classification.
type ResultCard struct {
	Emotion        emotion.Emotion
	Color          string
	Icon           template.HTML
	Percent        int
	DashArray      string
	Sentiment      emotion.Sentiment
	SentimentColor string
	SentimentTone  string
	SentimentIcon  template.HTML
}

// StatsBlock 是“Dashboard Insights”区域，仅在有历史时出现。
type StatsBlock struct {
	Total      int
	Emotions   Distribution
	Sentiments Distribution
}

// Distribution is one breakdown card.
type Distribution struct {
	Title     string
	EmptyNote string
	Bars      []Bar
}

// Bar is one non-empty category of a distribution.
type Bar struct {
	Label    string
	Count    int
	Width    string
	BarColor string
}

// ReportRow is one line of the analysis report, newest first.
type ReportRow struct {
	ID        string
	Text      string
	FullText  string
	Emotion   emotion.Emotion
	Percent   int
	Sentiment emotion.Sentiment
	CreatedAt time.Time
}

// Build 从状态快照推导页面模型，不产生副作用。
func Build(snapshot dashboard.Snapshot, opts Options) Page {
	provider := opts.ProviderName
	if provider == "" {
		provider = defaultProviderName
	}

	page := Page{
		Title:             Title,
		Subtitle:          fmt.Sprintf("Powered by %s API", provider),
		Text:              snapshot.Text,
		Placeholder:       TextPlaceholder,
		InputDisabled:     snapshot.IsLoading,
		ButtonLabel:       ButtonLabel,
		ButtonDisabled:    snapshot.IsLoading || strings.TrimSpace(snapshot.Text) == "",
		IsLoading:         snapshot.IsLoading,
		LoadingMessage:    fmt.Sprintf("Contacting %s...", provider),
		IdleHeading:       IdleHeading,
		IdleHint:          IdleHint,
		ReportPlaceholder: ReportPlaceholder,
	}
	if snapshot.IsLoading {
		page.ButtonLabel = ButtonLabelLoading
	}

	switch {
	case snapshot.Error != "":
		page.Panel = PanelError
		page.ErrorMessage = snapshot.Error
	case snapshot.IsLoading:
		page.Panel = PanelLoading
	case snapshot.CurrentResult != nil:
		page.Panel = PanelResult
		page.Result = buildResultCard(*snapshot.CurrentResult)
	default:
		page.Panel = PanelIdle
	}

	if snapshot.Stats.Total > 0 {
		page.Stats = buildStats(snapshot.Stats)
	}

	page.Report = make([]ReportRow, 0, len(snapshot.History))
	for _, record := range snapshot.History {
		page.Report = append(page.Report, ReportRow{
			ID:        record.ID,
			Text:      truncate(record.Text, reportTextLimit),
			FullText:  record.Text,
			Emotion:   record.ModelResult.Emotion,
			Percent:   record.ModelResult.Percent(),
			Sentiment: record.ModelResult.Sentiment,
			CreatedAt: record.CreatedAt,
		})
	}

	return page
}

func buildResultCard(result emotion.Result) *ResultCard {
	ed := EmotionDescriptor(result.Emotion)
	sd := SentimentDescriptor(result.Sentiment)
	pct := result.Percent()
	return &ResultCard{
		Emotion:        result.Emotion,
		Color:          ed.Color,
		Icon:           Icon(ed.Icon),
		Percent:        pct,
		DashArray:      fmt.Sprintf("%d, 100", pct),
		Sentiment:      result.Sentiment,
		SentimentColor: sd.Color,
		SentimentTone:  sd.Tone(),
		SentimentIcon:  Icon(sd.Icon),
	}
}

func buildStats(stats emotion.Stats) *StatsBlock {
	block := &StatsBlock{
		Total: stats.Total,
		Emotions: Distribution{
			Title:     "Model Emotion Breakdown",
			EmptyNote: "Not enough data for Model Emotions.",
		},
		Sentiments: Distribution{
			Title:     "Model Sentiment Breakdown",
			EmptyNote: "Not enough data for Model Sentiments.",
		},
	}

	for _, row := range stats.Emotions {
		if row.Count == 0 {
			continue
		}
		block.Emotions.Bars = append(block.Emotions.Bars, newBar(string(row.Emotion), row.Count, stats.Total, EmotionDescriptor(row.Emotion)))
	}
	for _, row := range stats.Sentiments {
		if row.Count == 0 {
			continue
		}
		block.Sentiments.Bars = append(block.Sentiments.Bars, newBar(string(row.Sentiment), row.Count, stats.Total, SentimentDescriptor(row.Sentiment)))
	}
	return block
}

func newBar(label string, count, total int, d Descriptor) Bar {
	width := float64(count) / float64(total) * 100
	return Bar{
		Label:    label,
		Count:    count,
		Width:    fmt.Sprintf("%.2f%%", width),
		BarColor: d.BarColor,
	}
}

// truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit-1]), " ") + "…"
}
