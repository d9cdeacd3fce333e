package stream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dashboardService "github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	"github.com/zhouzirui/emotion-dashboard/backend/pkg/utils"
)

// SSE event names, in emission order.
const (
	EventStart  = "start"
	EventResult = "result"
	EventError  = "error"
	EventEnd    = "end"
)

// Handler streams the progress of a single analysis via Server-Sent Events
type Handler struct {
	ctrl     *dashboardService.Controller
	provider string
	logger   *zap.Logger
}

// New creates a new stream handler
func New(ctrl *dashboardService.Controller, provider string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ctrl:     ctrl,
		provider: provider,
		logger:   logger.Named("stream"),
	}
}

// RegisterRoutes 注册流式分析路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analyze/stream", h.handleStream)
}

// StreamResponse represents one SSE payload
type StreamResponse struct {
	Text     string `json:"text,omitempty"`
	Provider string `json:"provider,omitempty"`
	Result   any    `json:"result,omitempty"`
	Record   any    `json:"record,omitempty"`
	Error    string `json:"error,omitempty"`
	Finished bool   `json:"finished,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	if err := h.HandleStreamRequest(r.Context(), w, r.URL.Query().Get("text")); err != nil {
		h.logger.Warn("stream request failed", zap.Error(err))
	}
}

// HandleStreamRequest 依次发送 start、result 或 error、end 事件。
// 分析失败以 error 事件告知客户端，返回值仅用于日志。
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, text string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if err := utils.SendSSEEvent(w, flusher, EventStart, StreamResponse{Text: text, Provider: h.provider}); err != nil {
		return err
	}

	record, analyzeErr := h.ctrl.Submit(ctx, text)
	if analyzeErr != nil {
		if err := utils.SendSSEEvent(w, flusher, EventError, StreamResponse{Error: analyzeErr.Error()}); err != nil {
			return err
		}
	} else {
		if err := utils.SendSSEEvent(w, flusher, EventResult, StreamResponse{Result: record.ModelResult, Record: record}); err != nil {
			return err
		}
	}

	if err := utils.SendSSEEvent(w, flusher, EventEnd, StreamResponse{Finished: true}); err != nil {
		return err
	}
	return analyzeErr
}
