// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "CAMPUS_PORT"
	EnvLogLevel        = "CAMPUS_LOG_LEVEL"
	EnvShutdownTimeout = "CAMPUS_SHUTDOWN_TIMEOUT"
	EnvServerName      = "CAMPUS_SERVER_NAME"

	// Knowledge Base
	EnvKnowledgePath  = "CAMPUS_KNOWLEDGE_PATH"
	EnvRetrievalLimit = "CAMPUS_RETRIEVAL_LIMIT"

	// Data
	EnvDataDir            = "CAMPUS_DATA_DIR"
	EnvStatsRetentionDays = "CAMPUS_STATS_RETENTION_DAYS"

	// Rate Limits
	EnvGlobalRateLimit  = "CAMPUS_GLOBAL_RATE_LIMIT"
	EnvGlobalRateWindow = "CAMPUS_GLOBAL_RATE_WINDOW"
	EnvIPRateLimit      = "CAMPUS_IP_RATE_LIMIT"
	EnvIPRateWindow     = "CAMPUS_IP_RATE_WINDOW"

	// LLM Feature
	EnvLLMEnabled       = "CAMPUS_LLM_ENABLED"
	EnvLLMProviders     = "CAMPUS_LLM_PROVIDERS"
	EnvLLMTimeout       = "CAMPUS_LLM_TIMEOUT"
	EnvLLMMaxRetries    = "CAMPUS_LLM_MAX_RETRIES"
	EnvDashScopeAPIKey  = "CAMPUS_DASHSCOPE_API_KEY"
	EnvDashScopeBaseURL = "CAMPUS_DASHSCOPE_BASE_URL"
	EnvDashScopeModel   = "CAMPUS_DASHSCOPE_MODEL"
	EnvGeminiAPIKey     = "CAMPUS_GEMINI_API_KEY"
	EnvGeminiModel      = "CAMPUS_GEMINI_MODEL"

	// Streaming
	EnvStreamChunkSize  = "CAMPUS_STREAM_CHUNK_SIZE"
	EnvStreamChunkDelay = "CAMPUS_STREAM_CHUNK_DELAY"

	// Object Store Snapshot Feature
	EnvSnapshotEnabled      = "CAMPUS_SNAPSHOT_ENABLED"
	EnvSnapshotEndpoint     = "CAMPUS_SNAPSHOT_ENDPOINT"
	EnvSnapshotAccessKeyID  = "CAMPUS_SNAPSHOT_ACCESS_KEY_ID"
	EnvSnapshotSecretKey    = "CAMPUS_SNAPSHOT_SECRET_ACCESS_KEY"
	EnvSnapshotBucket       = "CAMPUS_SNAPSHOT_BUCKET"
	EnvSnapshotObjectKey    = "CAMPUS_SNAPSHOT_OBJECT_KEY"
	EnvSnapshotPollInterval = "CAMPUS_SNAPSHOT_POLL_INTERVAL"

	// Sentry Feature
	EnvSentryEnabled          = "CAMPUS_SENTRY_ENABLED"
	EnvSentryDSN              = "CAMPUS_SENTRY_DSN"
	EnvSentryEnvironment      = "CAMPUS_SENTRY_ENVIRONMENT"
	EnvSentryRelease          = "CAMPUS_SENTRY_RELEASE"
	EnvSentrySampleRate       = "CAMPUS_SENTRY_SAMPLE_RATE"
	EnvSentryTracesSampleRate = "CAMPUS_SENTRY_TRACES_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackEnabled  = "CAMPUS_BETTERSTACK_ENABLED"
	EnvBetterStackToken    = "CAMPUS_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "CAMPUS_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsAuthEnabled = "CAMPUS_METRICS_AUTH_ENABLED"
	EnvMetricsUsername    = "CAMPUS_METRICS_USERNAME"
	EnvMetricsPassword    = "CAMPUS_METRICS_PASSWORD"
)
