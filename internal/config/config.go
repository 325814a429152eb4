// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, knowledge base, rate limits, LLM providers, snapshot sync
// and observability integrations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default LLM settings. DashScope is the primary provider: the Qwen
// models behind it handle Chinese campus queries best and its
// OpenAI-compatible endpoint keeps the client generic.
const (
	DefaultDashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultDashScopeModel   = "qwen-plus"
	DefaultGeminiModel      = "gemini-2.0-flash"
)

// Config holds all application configuration.
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	ServerName      string

	// Knowledge Base Configuration
	KnowledgePath  string // path to the knowledge_base.json document
	RetrievalLimit int    // maximum knowledge entries per answer (default: 3)

	// Data Configuration
	DataDir            string // directory for the SQLite stats database
	StatsRetentionDays int    // days of visit stats to keep (default: 30)

	// Rate Limits (sliding window)
	GlobalRateLimit  int           // requests per window across all clients (default: 1000)
	GlobalRateWindow time.Duration // global window size (default: 1m)
	IPRateLimit      int           // requests per window per client IP (default: 30)
	IPRateWindow     time.Duration // per-IP window size (default: 1m)

	// Streaming Configuration
	StreamChunkSize  int           // runes per WebSocket chunk when streaming a template answer
	StreamChunkDelay time.Duration // pause between template chunks (default: 50ms)

	// Feature Configuration (embedded)
	LLM         LLMConfig
	Snapshot    SnapshotConfig
	Sentry      SentryConfig
	BetterStack BetterStackConfig
	MetricsAuth MetricsAuthConfig
}

// LLMConfig holds generative-answer settings. When disabled, or when no
// provider has a key, answers come from the template composer alone.
type LLMConfig struct {
	Enabled    bool
	Providers  []string // provider fallback order: "dashscope", "gemini"
	Timeout    time.Duration
	MaxRetries int

	DashScopeAPIKey  string
	DashScopeBaseURL string
	DashScopeModel   string

	GeminiAPIKey string
	GeminiModel  string
}

// SnapshotConfig holds the S3-compatible object store settings used to
// poll for knowledge-base snapshots and hot-reload the store.
type SnapshotConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	ObjectKey       string // default: knowledge_base.json.zst
	PollInterval    time.Duration
}

// SentryConfig holds error tracking settings.
type SentryConfig struct {
	Enabled          bool
	DSN              string
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
}

// BetterStackConfig holds log shipping settings.
type BetterStackConfig struct {
	Enabled  bool
	Token    string
	Endpoint string
}

// MetricsAuthConfig holds Basic Auth settings for the /metrics endpoint.
type MetricsAuthConfig struct {
	Enabled  bool
	Username string
	Password string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "8000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		ServerName:      getEnv(EnvServerName, "campus-assistant"),

		// Knowledge Base Configuration
		KnowledgePath:  getEnv(EnvKnowledgePath, "./knowledge_base.json"),
		RetrievalLimit: getIntEnv(EnvRetrievalLimit, 3),

		// Data Configuration
		DataDir:            getEnv(EnvDataDir, getDefaultDataDir()),
		StatsRetentionDays: getIntEnv(EnvStatsRetentionDays, 30),

		// Rate Limits
		GlobalRateLimit:  getIntEnv(EnvGlobalRateLimit, 1000),
		GlobalRateWindow: getDurationEnv(EnvGlobalRateWindow, time.Minute),
		IPRateLimit:      getIntEnv(EnvIPRateLimit, 30),
		IPRateWindow:     getDurationEnv(EnvIPRateWindow, time.Minute),

		// Streaming Configuration
		StreamChunkSize:  getIntEnv(EnvStreamChunkSize, 12),
		StreamChunkDelay: getDurationEnv(EnvStreamChunkDelay, 50*time.Millisecond),

		// LLM Feature
		LLM: LLMConfig{
			Enabled:          getBoolEnv(EnvLLMEnabled, true),
			Providers:        getListEnv(EnvLLMProviders, []string{"dashscope", "gemini"}),
			Timeout:          getDurationEnv(EnvLLMTimeout, 30*time.Second),
			MaxRetries:       getIntEnv(EnvLLMMaxRetries, 2),
			DashScopeAPIKey:  getEnv(EnvDashScopeAPIKey, ""),
			DashScopeBaseURL: getEnv(EnvDashScopeBaseURL, DefaultDashScopeBaseURL),
			DashScopeModel:   getEnv(EnvDashScopeModel, DefaultDashScopeModel),
			GeminiAPIKey:     getEnv(EnvGeminiAPIKey, ""),
			GeminiModel:      getEnv(EnvGeminiModel, DefaultGeminiModel),
		},

		// Object Store Snapshot Feature
		Snapshot: SnapshotConfig{
			Enabled:         getBoolEnv(EnvSnapshotEnabled, false),
			Endpoint:        getEnv(EnvSnapshotEndpoint, ""),
			AccessKeyID:     getEnv(EnvSnapshotAccessKeyID, ""),
			SecretAccessKey: getEnv(EnvSnapshotSecretKey, ""),
			Bucket:          getEnv(EnvSnapshotBucket, ""),
			ObjectKey:       getEnv(EnvSnapshotObjectKey, "knowledge_base.json.zst"),
			PollInterval:    getDurationEnv(EnvSnapshotPollInterval, 5*time.Minute),
		},

		// Sentry Feature
		Sentry: SentryConfig{
			Enabled:          getBoolEnv(EnvSentryEnabled, false),
			DSN:              getEnv(EnvSentryDSN, ""),
			Environment:      getEnv(EnvSentryEnvironment, "production"),
			Release:          getEnv(EnvSentryRelease, ""),
			SampleRate:       getFloatEnv(EnvSentrySampleRate, 1.0),
			TracesSampleRate: getFloatEnv(EnvSentryTracesSampleRate, 0.1),
		},

		// Better Stack Feature
		BetterStack: BetterStackConfig{
			Enabled:  getBoolEnv(EnvBetterStackEnabled, false),
			Token:    getEnv(EnvBetterStackToken, ""),
			Endpoint: getEnv(EnvBetterStackEndpoint, ""),
		},

		// Metrics Auth Feature
		MetricsAuth: MetricsAuthConfig{
			Enabled:  getBoolEnv(EnvMetricsAuthEnabled, false),
			Username: getEnv(EnvMetricsUsername, "prometheus"),
			Password: getEnv(EnvMetricsPassword, ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and that
// numeric settings are in range.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.KnowledgePath == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvKnowledgePath))
	}
	if c.RetrievalLimit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvRetrievalLimit, c.RetrievalLimit))
	}
	if c.StatsRetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvStatsRetentionDays, c.StatsRetentionDays))
	}
	if c.GlobalRateLimit <= 0 || c.GlobalRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("global rate limit and window must be positive, got %d per %v",
			c.GlobalRateLimit, c.GlobalRateWindow))
	}
	if c.IPRateLimit <= 0 || c.IPRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("per-IP rate limit and window must be positive, got %d per %v",
			c.IPRateLimit, c.IPRateWindow))
	}
	if c.StreamChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvStreamChunkSize, c.StreamChunkSize))
	}
	if err := c.LLM.validate(); err != nil {
		errs = append(errs, fmt.Errorf("llm config: %w", err))
	}
	if err := c.Snapshot.validate(); err != nil {
		errs = append(errs, fmt.Errorf("snapshot config: %w", err))
	}
	if err := c.Sentry.validate(); err != nil {
		errs = append(errs, fmt.Errorf("sentry config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (c *LLMConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	for _, p := range c.Providers {
		switch p {
		case "dashscope", "gemini":
		default:
			errs = append(errs, fmt.Errorf("unknown provider %q", p))
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max retries cannot be negative, got %d", c.MaxRetries))
	}
	return errors.Join(errs...)
}

func (c *SnapshotConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, fmt.Errorf("%s is required when snapshot sync is enabled", EnvSnapshotEndpoint))
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		errs = append(errs, errors.New("snapshot access credentials are required"))
	}
	if c.Bucket == "" {
		errs = append(errs, fmt.Errorf("%s is required when snapshot sync is enabled", EnvSnapshotBucket))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %v", c.PollInterval))
	}
	return errors.Join(errs...)
}

func (c *SentryConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.DSN == "" {
		errs = append(errs, fmt.Errorf("%s is required when sentry is enabled", EnvSentryDSN))
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("sample rate must be in [0,1], got %v", c.SampleRate))
	}
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		errs = append(errs, fmt.Errorf("traces sample rate must be in [0,1], got %v", c.TracesSampleRate))
	}
	return errors.Join(errs...)
}

// HasProvider reports whether the named provider is configured with an
// API key and listed in the fallback order.
func (c *LLMConfig) HasProvider(name string) bool {
	var key string
	switch name {
	case "dashscope":
		key = c.DashScopeAPIKey
	case "gemini":
		key = c.GeminiAPIKey
	default:
		return false
	}
	if key == "" {
		return false
	}
	for _, p := range c.Providers {
		if p == name {
			return true
		}
	}
	return false
}

// Available reports whether generative answers can be served at all.
func (c *LLMConfig) Available() bool {
	return c.Enabled && (c.HasProvider("dashscope") || c.HasProvider("gemini"))
}

// SQLitePath returns the full path to the visit-stats database file.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "stats.db")
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv retrieves a comma-separated list with fallback to default value
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}
