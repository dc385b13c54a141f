package main

import (
	"github.com/aislemap/backend/config"
	"github.com/aislemap/backend/internal/infrastructure/cache"
	"github.com/aislemap/backend/internal/infrastructure/ollama"
	"github.com/aislemap/backend/internal/usecase"
	"go.uber.org/zap"
)

// pipeline is the wired categorization stack shared by serve and categorize
type pipeline struct {
	client  *ollama.Client
	monitor *usecase.HealthMonitor
	service *usecase.CategorizationService
}

func buildPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline, error) {
	client, err := ollama.NewClient(cfg.Inference.Client(), logger)
	if err != nil {
		return nil, err
	}

	monitor := usecase.NewHealthMonitor(client, usecase.HealthMonitorConfig{
		CheckInterval:          cfg.Health.CheckInterval,
		MaxConsecutiveFailures: cfg.Health.MaxConsecutiveFailures,
	}, logger)

	// The transport stretches its read timeout while the monitor sees a model loading.
	client.SetLoadSignal(monitor)

	retries := cfg.Categorizer.MaxRetries
	categorizer := usecase.NewCategorizer(client, monitor, usecase.CategorizerConfig{
		MaxRetries:  &retries,
		BackoffUnit: cfg.Categorizer.BackoffUnit,
	}, logger)

	var seed map[string]string
	if cfg.Categorizer.SeedCache {
		seed = cache.CommonItems
	}
	store := cache.NewMemoryCache(seed)

	service := usecase.NewCategorizationService(store, categorizer, usecase.CategorizationServiceConfig{
		BatchSize: cfg.Categorizer.BatchSize,
	}, logger)

	logger.Info("pipeline ready",
		zap.String("inference_url", cfg.Inference.BaseURL()),
		zap.String("model", cfg.Inference.Model),
		zap.Int("batch_size", cfg.Categorizer.BatchSize),
		zap.Int("cached_items", store.Size()))

	return &pipeline{
		client:  client,
		monitor: monitor,
		service: service,
	}, nil
}
