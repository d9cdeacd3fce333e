package analysis

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/model/dashboard"
	dashboardService "github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	"github.com/zhouzirui/emotion-dashboard/backend/pkg/utils"
)

// ProviderInfo describes the configured classification backend.
type ProviderInfo struct {
	Name       string `json:"provider"`
	Configured bool   `json:"configured"`
}

// Handler 情绪分析 JSON 接口的HTTP处理器
type Handler struct {
	ctrl     *dashboardService.Controller
	provider ProviderInfo
	logger   *zap.Logger
}

// New 创建分析处理器
func New(ctrl *dashboardService.Controller, provider ProviderInfo, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ctrl:     ctrl,
		provider: provider,
		logger:   logger.Named("analysis"),
	}
}

// RegisterRoutes 注册分析相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.Get("/history", h.handleHistory)
	r.Get("/stats", h.handleStats)
	r.Post("/analyze", h.handleAnalyze)
	r.Get("/health", h.handleHealth)
}

// AnalyzeResponse is returned by a successful analysis.
type AnalyzeResponse struct {
	Result emotion.Result   `json:"result"`
	Record dashboard.Record `json:"record"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.ctrl.History())
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.ctrl.Stats())
}

// handleAnalyze 同步执行一次分析
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.ctrl.Submit(r.Context(), payload.Text)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusBadGateway {
			h.logger.Warn("analysis request failed", zap.Error(err))
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, AnalyzeResponse{Result: record.ModelResult, Record: record})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"provider":   h.provider.Name,
		"configured": h.provider.Configured,
	})
}

// StatusFor 将控制器错误映射为 HTTP 状态码。
func StatusFor(err error) int {
	var validationErr *dashboardService.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, dashboardService.ErrAnalysisInProgress):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
