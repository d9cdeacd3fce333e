package page

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dashboardService "github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/view"
)

// Handler 仪表盘页面的HTTP处理器
type Handler struct {
	ctrl     *dashboardService.Controller
	renderer *view.Renderer
	opts     view.Options
	logger   *zap.Logger
}

// New 创建页面处理器
func New(ctrl *dashboardService.Controller, renderer *view.Renderer, opts view.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ctrl:     ctrl,
		renderer: renderer,
		opts:     opts,
		logger:   logger.Named("page"),
	}
}

// RegisterRoutes 注册页面路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleDashboard)
	r.Post("/analyze", h.handleAnalyzeForm)
}

// handleDashboard 渲染当前状态
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := view.Build(h.ctrl.Snapshot(), h.opts)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page); err != nil {
		h.logger.Error("render dashboard failed", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// handleAnalyzeForm 处理表单提交，结果写入状态后重定向回首页。
func (h *Handler) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	if _, err := h.ctrl.Submit(r.Context(), r.PostFormValue("text")); err != nil {
		var validationErr *dashboardService.ValidationError
		if !errors.As(err, &validationErr) && !errors.Is(err, dashboardService.ErrAnalysisInProgress) {
			h.logger.Warn("form analysis failed", zap.Error(err))
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
