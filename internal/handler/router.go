package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/handler/analysis"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/handler/live"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/handler/page"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/handler/stream"
	dashboardService "github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/view"
)

// Dependencies 汇总路由所需的服务。
type Dependencies struct {
	Controller     *dashboardService.Controller
	Renderer       *view.Renderer
	Provider       analysis.ProviderInfo
	ProviderName   string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	pageHandler := page.New(deps.Controller, deps.Renderer, view.Options{ProviderName: deps.ProviderName}, logger)
	analysisHandler := analysis.New(deps.Controller, deps.Provider, logger)
	streamHandler := stream.New(deps.Controller, deps.ProviderName, logger)
	wsHandler := live.NewWebSocketHandler(deps.Controller, logger)

	pageHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		analysisHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
