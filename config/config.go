package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/aislemap/backend/internal/domain"
	"github.com/aislemap/backend/internal/infrastructure/ollama"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Inference   InferenceConfig
	Categorizer CategorizerConfig
	Health      HealthConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// InferenceConfig holds the local inference backend configuration
type InferenceConfig struct {
	Host                 string        `mapstructure:"host"`
	Port                 int           `mapstructure:"port"`
	BasePath             string        `mapstructure:"base_path"`
	Model                string        `mapstructure:"model"`
	APIKey               string        `mapstructure:"api_key"`
	ConnectTimeout       time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout          time.Duration `mapstructure:"read_timeout"`
	KeepAlive            time.Duration `mapstructure:"keep_alive"`
	ModelLoadReadTimeout time.Duration `mapstructure:"model_load_read_timeout"`
	ProbeTimeout         time.Duration `mapstructure:"probe_timeout"`
	Temperature          float64       `mapstructure:"temperature"`
	TopP                 float64       `mapstructure:"top_p"`
	NumCtx               int           `mapstructure:"num_ctx"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second"`
}

// CategorizerConfig holds batching and retry configuration
type CategorizerConfig struct {
	BatchSize   int           `mapstructure:"batch_size"`
	MaxRetries  int           `mapstructure:"max_retries"`
	BackoffUnit time.Duration `mapstructure:"backoff_unit"`
	SeedCache   bool          `mapstructure:"seed_cache"` // preload the common items table
}

// HealthConfig holds circuit breaker configuration
type HealthConfig struct {
	CheckInterval          time.Duration `mapstructure:"check_interval"`
	MaxConsecutiveFailures int           `mapstructure:"max_consecutive_failures"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// BaseURL returns the inference API root, e.g. http://127.0.0.1:11434/api
func (c InferenceConfig) BaseURL() string {
	path := "/" + strings.Trim(c.BasePath, "/")
	if path == "/" {
		path = ""
	}
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) + path
}

// Client converts the inference section into transport settings
func (c InferenceConfig) Client() ollama.Config {
	return ollama.Config{
		BaseURL:              c.BaseURL(),
		Model:                c.Model,
		APIKey:               c.APIKey,
		ConnectTimeout:       c.ConnectTimeout,
		ReadTimeout:          c.ReadTimeout,
		KeepAlive:            c.KeepAlive,
		ModelLoadReadTimeout: c.ModelLoadReadTimeout,
		ProbeTimeout:         c.ProbeTimeout,
		Temperature:          c.Temperature,
		TopP:                 c.TopP,
		NumCtx:               c.NumCtx,
		RequestsPerSecond:    c.RequestsPerSecond,
	}
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/aislemap/")

	// Environment variable settings
	v.SetEnvPrefix("AISLEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Inference defaults
	v.SetDefault("inference.host", "127.0.0.1")
	v.SetDefault("inference.port", 11434)
	v.SetDefault("inference.base_path", "/api")
	v.SetDefault("inference.model", "llama3.2")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.connect_timeout", "5s")
	v.SetDefault("inference.read_timeout", "30s")
	v.SetDefault("inference.keep_alive", "90s")
	v.SetDefault("inference.model_load_read_timeout", "5m")
	v.SetDefault("inference.probe_timeout", "5s")
	v.SetDefault("inference.temperature", 0.1)
	v.SetDefault("inference.top_p", 0.9)
	v.SetDefault("inference.num_ctx", 2048)
	v.SetDefault("inference.requests_per_second", 0)

	// Categorizer defaults
	v.SetDefault("categorizer.batch_size", 3)
	v.SetDefault("categorizer.max_retries", 2)
	v.SetDefault("categorizer.backoff_unit", "2s")
	v.SetDefault("categorizer.seed_cache", true)

	// Health defaults
	v.SetDefault("health.check_interval", "5s")
	v.SetDefault("health.max_consecutive_failures", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// validate validates the configuration
func validate(config *Config) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
	}

	if !ollama.IsLoopbackHost(config.Inference.Host) {
		return invalid("inference host %q must be a loopback address", config.Inference.Host)
	}
	if config.Inference.Port <= 0 || config.Inference.Port > 65535 {
		return invalid("inference port %d out of range", config.Inference.Port)
	}
	if config.Inference.Model == "" {
		return invalid("inference model is required (set AISLEMAP_INFERENCE_MODEL)")
	}
	if config.Inference.ReadTimeout <= 0 {
		return invalid("inference read timeout must be positive")
	}
	if config.Categorizer.BatchSize < 1 {
		return invalid("categorizer batch size must be at least 1, got %d", config.Categorizer.BatchSize)
	}
	if config.Categorizer.MaxRetries < 0 {
		return invalid("categorizer max retries must not be negative, got %d", config.Categorizer.MaxRetries)
	}
	if config.Health.MaxConsecutiveFailures < 1 {
		return invalid("health max consecutive failures must be at least 1, got %d", config.Health.MaxConsecutiveFailures)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("unknown log level %q", config.Logging.Level)
	}

	return nil
}
