package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	httpDelivery "github.com/aislemap/backend/internal/delivery/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API:
  POST /api/v1/categorize   categorize a list of items
  GET  /health              service and backend health
  GET  /metrics             Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting AisleMap backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	checkModel(ctx, p)

	go p.monitor.Watch(ctx)

	handler := httpDelivery.NewHandler(p.service, p.monitor, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// checkModel warns when the configured model is not installed. The backend
// being down is not fatal: the keyword fallback keeps serving.
func checkModel(ctx context.Context, p *pipeline) {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		logger.Warn("inference backend unreachable, starting in fallback mode", zap.Error(err))
		return
	}
	if !slices.Contains(models, cfg.Inference.Model) && !slices.Contains(models, cfg.Inference.Model+":latest") {
		logger.Warn("configured model not installed on backend",
			zap.String("model", cfg.Inference.Model),
			zap.Strings("available", models))
		return
	}
	p.monitor.Check(ctx)
}
