package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aislemap/backend/internal/domain"
)

var errBackendDown = &domain.TransportError{
	Cause: domain.CauseConnect,
	Op:    "/generate",
	Err:   errors.New("connection refused"),
}

type mockReply struct {
	body string
	err  error
}

// mockInferenceClient is a mock implementation of domain.InferenceClient.
// Replies are consumed in order and the last one repeats; with no replies
// every Generate call fails as if the backend were unreachable.
type mockInferenceClient struct {
	mu         sync.Mutex
	replies    []mockReply
	prompts    []string
	probeErr   error
	probeCalls int
	processes  []domain.BackendProcess
	psErr      error
	psCalls    int
	calls      []string // "generate", "probe" and "ps" in call order
}

func newMockInferenceClient(replies ...mockReply) *mockInferenceClient {
	return &mockInferenceClient{replies: replies}
}

func (m *mockInferenceClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "generate")
	m.prompts = append(m.prompts, prompt)
	if len(m.replies) == 0 {
		return "", errBackendDown
	}
	r := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return r.body, r.err
}

func (m *mockInferenceClient) Probe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "probe")
	m.probeCalls++
	return m.probeErr
}

func (m *mockInferenceClient) RunningProcesses(ctx context.Context) ([]domain.BackendProcess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "ps")
	m.psCalls++
	return m.processes, m.psErr
}

func (m *mockInferenceClient) generateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockInferenceClient) listings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.psCalls
}

func (m *mockInferenceClient) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockInferenceClient) probes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probeCalls
}

func (m *mockInferenceClient) setProbeErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeErr = err
}

func (m *mockInferenceClient) setProcesses(procs []domain.BackendProcess) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processes = procs
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSleeper records backoff sleeps without waiting
type recordingSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.slept = append(s.slept, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.slept...)
}

// newTestPipeline wires a categorizer to a health monitor on a fake clock
func newTestPipeline(client *mockInferenceClient) (*Categorizer, *HealthMonitor, *fakeClock, *recordingSleeper) {
	clock := newFakeClock()
	monitor := NewHealthMonitor(client, HealthMonitorConfig{}, nil)
	monitor.now = clock.Now

	sleeper := &recordingSleeper{}
	categorizer := NewCategorizer(client, monitor, CategorizerConfig{}, nil)
	categorizer.sleep = sleeper.Sleep

	return categorizer, monitor, clock, sleeper
}
