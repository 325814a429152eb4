// Package ratelimit provides the sliding-window rate limiting used on
// the HTTP and WebSocket endpoints. This file contains the per-key
// limiter used for per-client-IP limits.
package ratelimit

import (
	"sync"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter instance.
type KeyedConfig struct {
	// Name identifies this limiter for metrics (e.g., "ip", "global")
	Name string

	// MaxRequests per Window for each key
	MaxRequests int
	Window      time.Duration

	// Whitelist keys bypass the limiter entirely (e.g., health probes)
	Whitelist []string

	// CleanupPeriod controls how often idle counters are evicted.
	// Zero disables the cleanup goroutine.
	CleanupPeriod time.Duration

	// Optional metrics reporter
	Metrics *metrics.Metrics
}

// KeyedLimiter tracks a sliding-window counter per key (client IP) and
// evicts counters that have gone idle for two full windows.
type KeyedLimiter struct {
	mu        sync.RWMutex
	counters  map[string]*SlidingWindowCounter
	whitelist map[string]struct{}
	config    KeyedConfig
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewKeyedLimiter creates a new per-key rate limiter.
// Returns nil if MaxRequests <= 0 (disabled); a nil limiter allows everything.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	if cfg.MaxRequests <= 0 {
		return nil
	}

	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, key := range cfg.Whitelist {
		whitelist[key] = struct{}{}
	}

	kl := &KeyedLimiter{
		counters:  make(map[string]*SlidingWindowCounter),
		whitelist: whitelist,
		config:    cfg,
		stopCh:    make(chan struct{}),
	}

	if cfg.CleanupPeriod > 0 {
		go kl.cleanupLoop()
	}

	return kl
}

// Allow checks if a request for the given key is allowed.
// Empty and whitelisted keys always pass.
func (kl *KeyedLimiter) Allow(key string) bool {
	if kl == nil || key == "" {
		return true
	}
	if _, ok := kl.whitelist[key]; ok {
		return true
	}

	allowed := kl.counter(key).Allow()
	if !allowed {
		kl.config.Metrics.RecordRateLimiterDrop(kl.config.Name)
	}
	return allowed
}

// Remaining returns the approximate remaining quota for a key.
func (kl *KeyedLimiter) Remaining(key string) int {
	if kl == nil {
		return -1
	}
	kl.mu.RLock()
	counter := kl.counters[key]
	kl.mu.RUnlock()
	if counter == nil {
		return kl.config.MaxRequests
	}
	return counter.Remaining()
}

// ActiveKeys returns the number of tracked keys (for monitoring).
func (kl *KeyedLimiter) ActiveKeys() int {
	if kl == nil {
		return 0
	}
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.counters)
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	if kl == nil {
		return
	}
	kl.stopOnce.Do(func() {
		close(kl.stopCh)
	})
}

func (kl *KeyedLimiter) counter(key string) *SlidingWindowCounter {
	kl.mu.RLock()
	counter := kl.counters[key]
	kl.mu.RUnlock()
	if counter != nil {
		return counter
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	// Re-check under write lock
	if counter = kl.counters[key]; counter != nil {
		return counter
	}
	counter = NewSlidingWindowCounter(kl.config.MaxRequests, kl.config.Window)
	kl.counters[key] = counter
	return counter
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			kl.cleanup()
		case <-kl.stopCh:
			return
		}
	}
}

// cleanup evicts counters with no traffic in the last two windows.
func (kl *KeyedLimiter) cleanup() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for key, counter := range kl.counters {
		if counter.idle() {
			delete(kl.counters, key)
		}
	}
}
