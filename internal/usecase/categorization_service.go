package usecase

import (
	"context"
	"fmt"

	"github.com/aislemap/backend/internal/domain"
	"github.com/aislemap/backend/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// BatchCategorizer categorizes one bounded batch of raw items
type BatchCategorizer interface {
	Categorize(ctx context.Context, batch []string) []domain.CategorizedItem
	EnhancedFallback(batch []string) []domain.CategorizedItem
	SimpleFallback(batch []string) []domain.CategorizedItem
}

// CategorizationServiceConfig holds configuration for the categorization service
type CategorizationServiceConfig struct {
	BatchSize int
}

// CategorizationService is the entry point of the pipeline. It owns the aisle
// cache, splits work into small batches and runs them one at a time.
//
// Batches are deliberately small and strictly sequential: a local inference
// backend becomes unstable under concurrent load. Do not parallelize batch
// dispatch without first validating the backend under that load.
type CategorizationService struct {
	cache       domain.AisleCache
	categorizer BatchCategorizer
	batchSize   int
	run         *semaphore.Weighted
	logger      *zap.Logger
}

// NewCategorizationService creates a new categorization service with dependencies
func NewCategorizationService(
	cache domain.AisleCache,
	categorizer BatchCategorizer,
	config CategorizationServiceConfig,
	logger *zap.Logger,
) *CategorizationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}

	return &CategorizationService{
		cache:       cache,
		categorizer: categorizer,
		batchSize:   batchSize,
		run:         semaphore.NewWeighted(1),
		logger:      logger.Named("orchestrator"),
	}
}

// CategorizeBatch categorizes items and returns exactly one record per item,
// in input order. Flow: cache lookup -> batch misses -> categorize -> cache write.
// Concurrent calls are serialized.
func (s *CategorizationService) CategorizeBatch(
	ctx context.Context,
	items []string,
	onProgress domain.ProgressFunc,
) []domain.CategorizedItem {
	if onProgress == nil {
		onProgress = func(string) {}
	}

	results := make([]domain.CategorizedItem, len(items))
	if len(items) == 0 {
		onProgress("Categorization complete")
		return results
	}

	if err := s.run.Acquire(ctx, 1); err != nil {
		// Cancelled while another run held the pipeline; answer without touching the cache.
		s.logger.Warn("categorization cancelled before start", zap.Error(err))
		return s.categorizer.EnhancedFallback(items)
	}
	defer s.run.Release(1)

	logger := s.logger.With(zap.String("run_id", uuid.NewString()))

	parsed := ParseItems(items)
	var misses []int
	for i, item := range parsed {
		aisle, err := s.cache.Get(ctx, item.CleanName)
		if err != nil {
			misses = append(misses, i)
			continue
		}
		results[i] = domain.CategorizedItem{
			Product: item.CleanName,
			Aisle:   aisle,
			Notes:   QuantityNote(item.Quantity, "from cache"),
		}
	}

	hits := len(items) - len(misses)
	metrics.CacheLookups.WithLabelValues("hit").Add(float64(hits))
	metrics.CacheLookups.WithLabelValues("miss").Add(float64(len(misses)))
	metrics.ItemsCategorized.WithLabelValues("cache").Add(float64(hits))
	logger.Info("cache lookup finished", zap.Int("hits", hits), zap.Int("misses", len(misses)))
	onProgress(fmt.Sprintf("Found %d cached items, %d need categorization", hits, len(misses)))

	total := (len(misses) + s.batchSize - 1) / s.batchSize
	for b := 0; b < total; b++ {
		end := (b + 1) * s.batchSize
		if end > len(misses) {
			end = len(misses)
		}
		idx := misses[b*s.batchSize : end]

		batch := make([]string, len(idx))
		for j, i := range idx {
			batch[j] = items[i]
		}

		onProgress(fmt.Sprintf("Processing batch %d/%d", b+1, total))
		out := s.categorizer.Categorize(ctx, batch)
		if len(out) != len(batch) {
			logger.Error("categorizer returned wrong number of items",
				zap.Int("want", len(batch)), zap.Int("got", len(out)))
			out = s.categorizer.EnhancedFallback(batch)
		}

		// A cancelled run answers from the keyword fallback; those guesses stay out of the cache.
		cancelled := ctx.Err() != nil
		if cancelled {
			logger.Warn("run cancelled, batch results not cached", zap.Int("batch", b+1))
		}
		for j, i := range idx {
			results[i] = out[j]
			if !cancelled {
				s.remember(ctx, parsed[i].CleanName, out[j])
			}
		}
	}

	logger.Info("categorization complete", zap.Int("items", len(items)), zap.Int("batches", total))
	onProgress("Categorization complete")
	return results
}

// CategorizeQuick answers immediately with the default aisle for every item.
func (s *CategorizationService) CategorizeQuick(items []string) []domain.CategorizedItem {
	return s.categorizer.SimpleFallback(items)
}

// CacheSize returns the number of cached items
func (s *CategorizationService) CacheSize() int {
	return s.cache.Size()
}

// remember caches a result under the clean name it was requested with and
// under the product name the categorizer returned.
func (s *CategorizationService) remember(ctx context.Context, cleanName string, item domain.CategorizedItem) {
	if item.Product == "" || item.Aisle == "" {
		return
	}
	if err := s.cache.Set(ctx, cleanName, item.Aisle); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", cleanName), zap.Error(err))
	}
	if err := s.cache.Set(ctx, item.Product, item.Aisle); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", item.Product), zap.Error(err))
	}
}
