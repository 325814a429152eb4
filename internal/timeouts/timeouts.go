// Package timeouts provides centralized timeout constants for the application.
//
// These values are tuned for the assistant's traffic shape:
//   - API questions are small JSON payloads, but generated answers can
//     take tens of seconds when an LLM provider is slow
//   - WebSocket connections are long-lived and exempt from the HTTP
//     write timeout once hijacked
//   - SQLite in WAL mode handles the visit-stats write load easily, but
//     needs a generous busy timeout under concurrent writes
package timeouts

import "time"

// HTTP server timeouts
const (
	// HTTPRead is the server read timeout. Questions are small JSON
	// bodies, so this only guards against slow-loris clients.
	HTTPRead = 10 * time.Second

	// HTTPWrite is the server write timeout. Must accommodate a full
	// LLM generation on /api/ask, including one provider fallback.
	HTTPWrite = 90 * time.Second

	// HTTPIdle is the idle timeout for keep-alive connections.
	HTTPIdle = 120 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is the SQLite busy_timeout pragma value.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database
	// connections, allowing the pool to refresh.
	DatabaseConnMaxLifetime = time.Hour
)

// Background job intervals
const (
	// StatsCleanupInitialDelay lets the server stabilize before the
	// first visit-stats retention sweep.
	StatsCleanupInitialDelay = time.Minute

	// StatsCleanupInterval is how often visit rows past the retention
	// window are deleted.
	StatsCleanupInterval = 12 * time.Hour

	// RateLimiterCleanupInterval is how often idle per-IP rate counters
	// are evicted.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown allows in-flight requests to complete before
	// forceful termination.
	GracefulShutdown = 30 * time.Second
)
