package view

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

// Descriptor 描述某个分类在页面上的展示方式。
type Descriptor struct {
	Icon     string
	Color    string
	BarColor string
}

// Tone returns the colour family, e.g. "green" for "green-400".
func (d Descriptor) Tone() string {
	tone, _, _ := strings.Cut(d.Color, "-")
	return tone
}

var emotionDescriptors = map[emotion.Emotion]Descriptor{
	emotion.Joy:            {Icon: "joy", Color: "yellow-400", BarColor: "bg-yellow-500"},
	emotion.Sadness:        {Icon: "sadness", Color: "blue-400", BarColor: "bg-blue-500"},
	emotion.Anger:          {Icon: "anger", Color: "red-400", BarColor: "bg-red-500"},
	emotion.Fear:           {Icon: "fear", Color: "purple-400", BarColor: "bg-purple-500"},
	emotion.Surprise:       {Icon: "surprise", Color: "indigo-400", BarColor: "bg-indigo-500"},
	emotion.NeutralEmotion: {Icon: "neutral", Color: "gray-400", BarColor: "bg-gray-500"},
}

var sentimentDescriptors = map[emotion.Sentiment]Descriptor{
	emotion.Positive:         {Icon: "smile", Color: "green-400", BarColor: "bg-green-500"},
	emotion.Negative:         {Icon: "frown", Color: "red-400", BarColor: "bg-red-500"},
	emotion.NeutralSentiment: {Icon: "neutral", Color: "gray-400", BarColor: "bg-gray-500"},
}

const (
	faceOutline = `<path stroke-linecap="round" stroke-linejoin="round" d="M12 21a9 9 0 100-18 9 9 0 000 18z"/>`
	smilePath   = `<path stroke-linecap="round" stroke-linejoin="round" d="M14.828 14.828a4 4 0 01-5.656 0M9 10h.01M15 10h.01M21 12a9 9 0 11-18 0 9 9 0 0118 0z"/>`
	frownPath   = `<path stroke-linecap="round" stroke-linejoin="round" d="M9.172 16.172a4 4 0 015.656 0M9 10h.01M15 10h.01M21 12a9 9 0 11-18 0 9 9 0 0118 0z"/>`
)

// icons holds the inner markup of each 24x24 outline icon.
var icons = map[string]template.HTML{
	"joy":     smilePath,
	"smile":   smilePath,
	"sadness": frownPath,
	"frown":   frownPath,
	"anger": faceOutline +
		`<path stroke-linecap="round" stroke-linejoin="round" d="M15 14H9"/>` +
		`<path stroke-linecap="round" stroke-linejoin="round" d="M15.5 9.5l-1.5-1.5-1.5 1.5"/>` +
		`<path stroke-linecap="round" stroke-linejoin="round" d="M8.5 9.5l1.5-1.5 1.5 1.5"/>`,
	"fear": faceOutline +
		`<path stroke-linecap="round" stroke-linejoin="round" d="M12 15a3 3 0 100-6 3 3 0 000 6z"/>` +
		`<path stroke-linecap="round" stroke-linejoin="round" d="M10 9h.01M14 9h.01"/>`,
	"surprise": faceOutline +
		`<circle cx="12" cy="14" r="1"/>` +
		`<path stroke-linecap="round" stroke-linejoin="round" d="M9 10h.01M15 10h.01"/>`,
	"neutral": `<path stroke-linecap="round" stroke-linejoin="round" d="M8.228 9c.549-1.165 2.03-2 3.772-2 1.742 0 3.223.835 3.772 2M12 18a9 9 0 110-18 9 9 0 010 18zM9 13h6"/>`,
}

func init() {
	if err := checkDescriptors(); err != nil {
		panic(err)
	}
}

// checkDescriptors 确保每个枚举值都有展示配置且图标存在。
func checkDescriptors() error {
	for _, e := range emotion.Emotions() {
		d, ok := emotionDescriptors[e]
		if !ok {
			return fmt.Errorf("view: no descriptor for emotion %q", e)
		}
		if _, ok := icons[d.Icon]; !ok {
			return fmt.Errorf("view: emotion %q uses unknown icon %q", e, d.Icon)
		}
	}
	for _, s := range emotion.Sentiments() {
		d, ok := sentimentDescriptors[s]
		if !ok {
			return fmt.Errorf("view: no descriptor for sentiment %q", s)
		}
		if _, ok := icons[d.Icon]; !ok {
			return fmt.Errorf("view: sentiment %q uses unknown icon %q", s, d.Icon)
		}
	}
	return nil
}

// EmotionDescriptor returns the display descriptor for e.
func EmotionDescriptor(e emotion.Emotion) Descriptor {
	return emotionDescriptors[e]
}

// SentimentDescriptor returns the display descriptor for s.
func SentimentDescriptor(s emotion.Sentiment) Descriptor {
	return sentimentDescriptors[s]
}

// Icon returns the inner SVG markup for an icon id.
func Icon(id string) template.HTML {
	return icons[id]
}
