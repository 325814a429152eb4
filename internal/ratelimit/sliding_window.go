// Package ratelimit provides the sliding-window rate limiting used on
// the HTTP and WebSocket endpoints.
package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindowCounter implements a memory-efficient sliding window rate limiter.
// It uses the sliding window counter algorithm with two fixed windows and weighted averaging:
//
//	effectiveCount = currCount + prevCount × (remaining time in current window / window duration)
//
// This smooths limiting across window boundaries with O(1) space per counter.
type SlidingWindowCounter struct {
	mu              sync.Mutex
	currCount       int
	prevCount       int
	currWindowStart time.Time
	windowDuration  time.Duration
	maxRequests     int
}

// NewSlidingWindowCounter creates a new sliding window counter.
// Returns nil if maxRequests <= 0 (disabled); a nil counter allows everything.
func NewSlidingWindowCounter(maxRequests int, windowDuration time.Duration) *SlidingWindowCounter {
	if maxRequests <= 0 {
		return nil
	}
	return &SlidingWindowCounter{
		currWindowStart: time.Now(),
		windowDuration:  windowDuration,
		maxRequests:     maxRequests,
	}
}

// Allow checks if a request is allowed and consumes a slot if so.
// Thread-safe.
func (swc *SlidingWindowCounter) Allow() bool {
	if swc == nil {
		return true // Disabled
	}

	swc.mu.Lock()
	defer swc.mu.Unlock()

	swc.maybeRotateWindow()

	if swc.weightedCount() >= float64(swc.maxRequests) {
		return false
	}

	swc.currCount++
	return true
}

// Remaining returns the approximate remaining quota, or -1 when disabled.
func (swc *SlidingWindowCounter) Remaining() int {
	if swc == nil {
		return -1 // Unlimited
	}

	swc.mu.Lock()
	defer swc.mu.Unlock()

	swc.maybeRotateWindow()
	remaining := float64(swc.maxRequests) - swc.weightedCount()
	if remaining < 0 {
		return 0
	}
	return int(remaining)
}

// idle reports whether the counter has seen no traffic in the current
// and previous windows, making it safe to evict.
func (swc *SlidingWindowCounter) idle() bool {
	swc.mu.Lock()
	defer swc.mu.Unlock()

	swc.maybeRotateWindow()
	return swc.currCount == 0 && swc.prevCount == 0
}

// maybeRotateWindow rotates to a new window if the current one has expired.
// Must be called with mu held.
func (swc *SlidingWindowCounter) maybeRotateWindow() {
	elapsed := time.Since(swc.currWindowStart)
	if elapsed < swc.windowDuration {
		return
	}

	windowsPassed := int(elapsed / swc.windowDuration)
	if windowsPassed == 1 {
		swc.prevCount = swc.currCount
	} else {
		// More than one window passed: previous window has no relevant data
		swc.prevCount = 0
	}

	swc.currCount = 0
	// Align window start to the beginning of the current window
	swc.currWindowStart = swc.currWindowStart.Add(time.Duration(windowsPassed) * swc.windowDuration)
}

// weightedCount returns the sliding-window weighted count.
// Must be called with mu held.
func (swc *SlidingWindowCounter) weightedCount() float64 {
	elapsed := time.Since(swc.currWindowStart)

	overlapRatio := float64(swc.windowDuration-elapsed) / float64(swc.windowDuration)
	if overlapRatio < 0 {
		overlapRatio = 0
	}
	if overlapRatio > 1 {
		overlapRatio = 1
	}

	return float64(swc.currCount) + float64(swc.prevCount)*overlapRatio
}
