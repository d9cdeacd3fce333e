package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/config"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/handler"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/handler/analysis"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/service/emotion"
	"github.com/zhouzirui/emotion-dashboard/backend/internal/view"
	"github.com/zhouzirui/emotion-dashboard/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if envErr != nil {
		zl.Info("no .env file loaded, continuing with system environment variables only", zap.Error(envErr))
	}

	backend, err := emotion.NewBackend(ctx, cfg.AI)
	if err != nil {
		zl.Fatal("failed to initialize classification backend", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	}
	if cfg.AI.Enabled() {
		zl.Info("classification backend ready",
			zap.String("provider", cfg.AI.Provider),
			zap.String("model", cfg.AI.Model))
	} else {
		zl.Warn("API key not configured, every analysis will fail until credentials are provided",
			zap.String("provider", cfg.AI.Provider))
	}

	classifier := emotion.NewService(backend, zl)
	ctrl := dashboard.NewController(classifier, dashboard.WithLogger(zl))

	renderer, err := view.NewRenderer()
	if err != nil {
		zl.Fatal("failed to parse templates", zap.Error(err))
	}

	router := handler.NewRouter(handler.Dependencies{
		Controller: ctrl,
		Renderer:   renderer,
		Provider: analysis.ProviderInfo{
			Name:       cfg.AI.Provider,
			Configured: cfg.AI.Enabled(),
		},
		ProviderName:   cfg.AI.DisplayName(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         zl,
	})

	startServer(ctx, cfg.Server, router, zl)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, zl *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	zl.Info("emotion dashboard listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
