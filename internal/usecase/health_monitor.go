package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aislemap/backend/internal/domain"
	"github.com/aislemap/backend/internal/metrics"
	"go.uber.org/zap"
)

// modelLoadMarkers flag a backend process that is still pulling or loading a model
var modelLoadMarkers = []string{"pull", "load"}

// BackendProber is the subset of the inference client the monitor needs
type BackendProber interface {
	Probe(ctx context.Context) error
	RunningProcesses(ctx context.Context) ([]domain.BackendProcess, error)
}

// HealthMonitorConfig holds configuration for the health monitor
type HealthMonitorConfig struct {
	CheckInterval          time.Duration
	MaxConsecutiveFailures int
}

// HealthMonitor tracks whether the inference backend is worth calling.
//
// It is a self-healing circuit breaker: once MaxConsecutiveFailures remote
// calls fail in a row, ShouldAttemptRemote answers from a rate-limited probe
// instead of letting callers hit the backend. A successful probe closes the
// breaker again.
type HealthMonitor struct {
	prober        BackendProber
	checkInterval time.Duration
	maxFailures   int
	logger        *zap.Logger
	now           func() time.Time

	mu            sync.Mutex
	state         domain.HealthState
	lastLoadCheck time.Time
}

// NewHealthMonitor creates a new health monitor with the given configuration
func NewHealthMonitor(prober BackendProber, config HealthMonitorConfig, logger *zap.Logger) *HealthMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	interval := config.CheckInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	maxFailures := config.MaxConsecutiveFailures
	if maxFailures <= 0 {
		maxFailures = 3
	}

	return &HealthMonitor{
		prober:        prober,
		checkInterval: interval,
		maxFailures:   maxFailures,
		logger:        logger.Named("health"),
		now:           time.Now,
		state:         domain.HealthState{Available: true},
	}
}

// ShouldAttemptRemote reports whether the next batch may call the backend.
// While the breaker is closed it also refreshes model-load detection, at most
// once per CheckInterval, so the transport knows to wait for a loading model.
func (m *HealthMonitor) ShouldAttemptRemote(ctx context.Context) bool {
	m.mu.Lock()
	failures := m.state.ConsecutiveFailures
	m.mu.Unlock()

	if failures < m.maxFailures {
		m.refreshModelLoad(ctx)
		return true
	}

	if m.IsHealthy(ctx) {
		m.logger.Info("backend answered probe, closing circuit", zap.Int("failures", failures))
		m.RecordSuccess()
		return true
	}
	return false
}

// IsHealthy returns the last known backend state, probing only when
// CheckInterval has elapsed since the previous check.
func (m *HealthMonitor) IsHealthy(ctx context.Context) bool {
	m.mu.Lock()
	due := m.state.LastCheckTime.IsZero() || m.now().Sub(m.state.LastCheckTime) >= m.checkInterval
	available := m.state.Available
	m.mu.Unlock()

	if !due {
		return available
	}
	return m.Check(ctx)
}

// Check probes the backend unconditionally and refreshes model-load detection on success.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	err := m.prober.Probe(ctx)

	m.mu.Lock()
	m.state.LastCheckTime = m.now()
	m.state.Available = err == nil
	m.mu.Unlock()

	if err != nil {
		m.logger.Debug("backend probe failed", zap.Error(err))
		return false
	}

	m.DetectModelLoad(ctx)
	return true
}

// DetectModelLoad inspects the backend process list and updates the model-load flag.
func (m *HealthMonitor) DetectModelLoad(ctx context.Context) bool {
	procs, err := m.prober.RunningProcesses(ctx)
	if err != nil {
		m.logger.Debug("process listing failed", zap.Error(err))
		return m.ModelLoadInProgress()
	}

	loading := false
	for _, p := range procs {
		if isLoadingProcess(p) {
			loading = true
			break
		}
	}

	m.mu.Lock()
	changed := m.state.ModelLoadInProgress != loading
	m.state.ModelLoadInProgress = loading
	m.lastLoadCheck = m.now()
	m.mu.Unlock()

	if changed {
		if loading {
			m.logger.Info("model load detected, extending read timeout")
			metrics.ModelLoading.Set(1)
		} else {
			m.logger.Info("model load finished, restoring read timeout")
			metrics.ModelLoading.Set(0)
		}
	}
	return loading
}

// refreshModelLoad runs DetectModelLoad unless a listing was attempted within CheckInterval.
func (m *HealthMonitor) refreshModelLoad(ctx context.Context) {
	m.mu.Lock()
	now := m.now()
	due := m.lastLoadCheck.IsZero() || now.Sub(m.lastLoadCheck) >= m.checkInterval
	if due {
		m.lastLoadCheck = now
	}
	m.mu.Unlock()

	if due {
		m.DetectModelLoad(ctx)
	}
}

func isLoadingProcess(p domain.BackendProcess) bool {
	fields := strings.ToLower(p.Name + " " + p.Model + " " + p.Status)
	for _, marker := range modelLoadMarkers {
		if strings.Contains(fields, marker) {
			return true
		}
	}
	return false
}

// ModelLoadInProgress reports whether the backend is busy loading a model
func (m *HealthMonitor) ModelLoadInProgress() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ModelLoadInProgress
}

// RecordFailure counts a failed remote call.
func (m *HealthMonitor) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ConsecutiveFailures++
	metrics.ConsecutiveFailures.Set(float64(m.state.ConsecutiveFailures))

	// Tripping the breaker marks the backend down as of now, so the next
	// gate check waits a full interval before probing.
	if m.state.ConsecutiveFailures >= m.maxFailures && m.state.Available {
		m.state.Available = false
		m.state.LastCheckTime = m.now()
		m.logger.Warn("circuit opened", zap.Int("failures", m.state.ConsecutiveFailures))
	}
}

// RecordSuccess resets the failure counter after a successful remote call
func (m *HealthMonitor) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ConsecutiveFailures = 0
	m.state.Available = true
	metrics.ConsecutiveFailures.Set(0)
}

// State returns a snapshot of the current health state
func (m *HealthMonitor) State() domain.HealthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Watch probes the backend every CheckInterval until ctx is done.
func (m *HealthMonitor) Watch(ctx context.Context) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
