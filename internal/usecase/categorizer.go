package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/aislemap/backend/internal/domain"
	"github.com/aislemap/backend/internal/metrics"
	"go.uber.org/zap"
)

// Fallback reasons reported to metrics and logs
const (
	reasonBreakerOpen      = "breaker_open"
	reasonRetriesExhausted = "retries_exhausted"
	reasonCancelled        = "cancelled"
)

// RemoteGate decides whether the backend may be called and receives call outcomes
type RemoteGate interface {
	ShouldAttemptRemote(ctx context.Context) bool
	RecordFailure()
	RecordSuccess()
}

// CategorizerConfig holds configuration for the categorizer
type CategorizerConfig struct {
	MaxRetries  *int          // attempts = MaxRetries + 1; nil means 2
	BackoffUnit time.Duration // sleep before retry n is n * BackoffUnit
}

// Categorizer turns batches of raw items into categorized records.
// It never fails: when the backend cannot produce a complete answer the batch
// is classified by the keyword rules instead.
type Categorizer struct {
	client      domain.InferenceClient
	gate        RemoteGate
	maxRetries  int
	backoffUnit time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *zap.Logger
}

// NewCategorizer creates a new categorizer with dependencies
func NewCategorizer(client domain.InferenceClient, gate RemoteGate, config CategorizerConfig, logger *zap.Logger) *Categorizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxRetries := 2
	if config.MaxRetries != nil && *config.MaxRetries >= 0 {
		maxRetries = *config.MaxRetries
	}

	backoff := config.BackoffUnit
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	return &Categorizer{
		client:      client,
		gate:        gate,
		maxRetries:  maxRetries,
		backoffUnit: backoff,
		sleep:       sleepContext,
		logger:      logger.Named("categorizer"),
	}
}

// Categorize returns one record per item of batch, in the same order.
func (c *Categorizer) Categorize(ctx context.Context, batch []string) []domain.CategorizedItem {
	if len(batch) == 0 {
		return []domain.CategorizedItem{}
	}

	start := time.Now()
	defer func() { metrics.BatchLatency.Observe(time.Since(start).Seconds()) }()

	items := ParseItems(batch)
	prompt := buildPrompt(items)
	attempts := c.maxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return c.fallback(items, reasonCancelled)
		}
		if !c.gate.ShouldAttemptRemote(ctx) {
			return c.fallback(items, reasonBreakerOpen)
		}

		results, err := c.attempt(ctx, items, prompt)
		if err == nil {
			c.gate.RecordSuccess()
			metrics.RemoteAttempts.WithLabelValues("success").Inc()
			metrics.ItemsCategorized.WithLabelValues("remote").Add(float64(len(results)))
			c.logger.Debug("batch categorized remotely",
				zap.Int("items", len(results)),
				zap.Int("attempt", attempt))
			return results
		}

		if errors.Is(err, domain.ErrTransport) {
			c.gate.RecordFailure()
			metrics.RemoteAttempts.WithLabelValues("transport_error").Inc()
		} else {
			metrics.RemoteAttempts.WithLabelValues("parse_error").Inc()
		}
		c.logger.Warn("remote categorization attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if attempt < attempts {
			if err := c.sleep(ctx, time.Duration(attempt)*c.backoffUnit); err != nil {
				return c.fallback(items, reasonCancelled)
			}
		}
	}

	return c.fallback(items, reasonRetriesExhausted)
}

// attempt performs one remote round trip and validates the answer
func (c *Categorizer) attempt(ctx context.Context, items []domain.ParsedItem, prompt string) ([]domain.CategorizedItem, error) {
	body, err := c.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	entries, err := parseEntries(body)
	if err != nil {
		return nil, err
	}

	return matchEntries(items, entries)
}

func (c *Categorizer) fallback(items []domain.ParsedItem, reason string) []domain.CategorizedItem {
	c.logger.Info("using keyword fallback", zap.String("reason", reason), zap.Int("items", len(items)))
	metrics.FallbackBatches.WithLabelValues(reason).Inc()
	metrics.ItemsCategorized.WithLabelValues("fallback").Add(float64(len(items)))
	return enhancedFallback(items)
}

// EnhancedFallback classifies batch with the keyword rules only.
func (c *Categorizer) EnhancedFallback(batch []string) []domain.CategorizedItem {
	metrics.ItemsCategorized.WithLabelValues("fallback").Add(float64(len(batch)))
	return enhancedFallback(ParseItems(batch))
}

// SimpleFallback puts every item in the default aisle. It does no classification
// work at all and is meant for callers that need an immediate answer.
func (c *Categorizer) SimpleFallback(batch []string) []domain.CategorizedItem {
	metrics.ItemsCategorized.WithLabelValues("quick").Add(float64(len(batch)))
	return simpleFallback(ParseItems(batch))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
