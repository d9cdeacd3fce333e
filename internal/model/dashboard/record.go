package dashboard

import (
	"time"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

// Record pairs a submitted text with its classification. Records are
// appended to history and never modified.
type Record struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	ModelResult emotion.Result `json:"modelResult"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Snapshot is a read-only copy of the dashboard state.
type Snapshot struct {
	Text          string          `json:"text"`
	IsLoading     bool            `json:"isLoading"`
	Error         string          `json:"error,omitempty"`
	CurrentResult *emotion.Result `json:"currentResult"`
	History       []Record        `json:"history"`
	Stats         emotion.Stats   `json:"stats"`
}
