package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aislemap/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "AisleMap/1.0"

// LoadSignal reports whether the backend is busy loading a model.
type LoadSignal interface {
	ModelLoadInProgress() bool
}

// Config holds the settings for talking to the inference backend
type Config struct {
	BaseURL              string // e.g. http://127.0.0.1:11434/api
	Model                string
	APIKey               string
	ConnectTimeout       time.Duration
	ReadTimeout          time.Duration
	KeepAlive            time.Duration
	ModelLoadReadTimeout time.Duration
	ProbeTimeout         time.Duration
	Temperature          float64
	TopP                 float64
	NumCtx               int
	RequestsPerSecond    float64 // <= 0 disables the limiter
}

// Client handles communication with a local Ollama-style inference API
type Client struct {
	httpClient  *http.Client
	transport   *http.Transport
	baseURL     string
	model       string
	apiKey      string
	options     generateOptions
	format      json.RawMessage
	rateLimiter *rate.Limiter
	logger      *zap.Logger

	readTimeout          time.Duration
	modelLoadReadTimeout time.Duration
	probeTimeout         time.Duration

	mu         sync.RWMutex
	loadSignal LoadSignal
}

// NewClient creates a new inference client. The endpoint must be a loopback address.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: inference model is required", domain.ErrInvalidConfiguration)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid inference URL %q", domain.ErrInvalidConfiguration, cfg.BaseURL)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidConfiguration, base.Scheme)
	}
	if !IsLoopbackHost(base.Hostname()) {
		return nil, fmt.Errorf("%w: inference host %q is not a loopback address", domain.ErrInvalidConfiguration, base.Hostname())
	}

	applyDefaults(&cfg)

	format, err := ReplySchema()
	if err != nil {
		return nil, fmt.Errorf("build reply schema: %w", err)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	// One connection per host:port, reused while it stays alive.
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxConnsPerHost:     1,
		MaxIdleConnsPerHost: 1,
		IdleConnTimeout:     cfg.KeepAlive,
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		transport:  transport,
		baseURL:    base.String(),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		options: generateOptions{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			NumCtx:      cfg.NumCtx,
		},
		format:               format,
		rateLimiter:          limiter,
		logger:               logger.Named("transport"),
		readTimeout:          cfg.ReadTimeout,
		modelLoadReadTimeout: cfg.ModelLoadReadTimeout,
		probeTimeout:         cfg.ProbeTimeout,
	}, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 90 * time.Second
	}
	if cfg.ModelLoadReadTimeout <= 0 {
		cfg.ModelLoadReadTimeout = 5 * time.Minute
	}
	if cfg.ModelLoadReadTimeout < cfg.ReadTimeout {
		cfg.ModelLoadReadTimeout = cfg.ReadTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
}

// SetLoadSignal attaches the source consulted for the extended read timeout
func (c *Client) SetLoadSignal(s LoadSignal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadSignal = s
}

// ReadTimeout returns the read timeout the next generate call will use.
func (c *Client) ReadTimeout() time.Duration {
	c.mu.RLock()
	s := c.loadSignal
	c.mu.RUnlock()

	if s != nil && s.ModelLoadInProgress() {
		return c.modelLoadReadTimeout
	}
	return c.readTimeout
}

// Generate sends a non-streaming prompt and returns the raw model response text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", &domain.TransportError{Cause: domain.CauseRequest, Op: "/generate", Err: err}
	}

	req := generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Format:  c.format,
		Options: c.options,
	}

	timeout := c.ReadTimeout()
	start := time.Now()

	var resp generateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/generate", req, &resp, timeout); err != nil {
		c.logger.Warn("generate failed", zap.Duration("timeout", timeout), zap.Error(err))
		return "", err
	}

	c.logger.Debug("generate completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(resp.Response)))
	return resp.Response, nil
}

// Probe checks that the backend answers its model listing.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

// ListModels returns the identifiers of the models available on the backend
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var resp tagsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/tags", nil, &resp, c.probeTimeout); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		names = append(names, name)
	}
	return names, nil
}

// RunningProcesses lists what the backend is currently running or loading
func (c *Client) RunningProcesses(ctx context.Context) ([]domain.BackendProcess, error) {
	var resp psResponse
	if err := c.doJSON(ctx, http.MethodGet, "/ps", nil, &resp, c.probeTimeout); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// doJSON executes a single request with proper headers and normalizes every failure into a TransportError
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &domain.TransportError{Cause: domain.CauseRequest, Op: path, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &domain.TransportError{Cause: domain.CauseRequest, Op: path, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Drop the possibly broken connection so the next call dials fresh.
		c.transport.CloseIdleConnections()
		return &domain.TransportError{Cause: causeOf(err), Op: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.transport.CloseIdleConnections()
		return &domain.TransportError{Cause: causeOf(err), Op: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &domain.TransportError{
			Cause: domain.CauseStatus,
			Op:    path,
			Err:   fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200)),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &domain.TransportError{Cause: domain.CauseDecode, Op: path, Err: err}
	}
	return nil
}

func causeOf(err error) domain.TransportCause {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.CauseTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.CauseTimeout
	}
	return domain.CauseConnect
}

// IsLoopbackHost reports whether host names the local machine.
func IsLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
