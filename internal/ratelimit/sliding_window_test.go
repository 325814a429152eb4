package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestSlidingWindowAllowUpToLimit(t *testing.T) {
	swc := NewSlidingWindowCounter(5, time.Hour)

	for i := range 5 {
		if !swc.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if swc.Allow() {
		t.Error("request over limit should be denied")
	}
}

func TestSlidingWindowNilIsDisabled(t *testing.T) {
	var swc *SlidingWindowCounter

	for range 1000 {
		if !swc.Allow() {
			t.Fatal("nil counter must allow everything")
		}
	}
	if got := swc.Remaining(); got != -1 {
		t.Errorf("Remaining() = %d, want -1 for disabled", got)
	}
}

func TestNewSlidingWindowCounterDisabled(t *testing.T) {
	if NewSlidingWindowCounter(0, time.Minute) != nil {
		t.Error("maxRequests=0 should return nil (disabled)")
	}
	if NewSlidingWindowCounter(-1, time.Minute) != nil {
		t.Error("negative maxRequests should return nil (disabled)")
	}
}

func TestSlidingWindowRemaining(t *testing.T) {
	swc := NewSlidingWindowCounter(10, time.Hour)

	if got := swc.Remaining(); got != 10 {
		t.Errorf("Remaining() = %d, want 10", got)
	}

	for range 4 {
		swc.Allow()
	}
	if got := swc.Remaining(); got != 6 {
		t.Errorf("Remaining() after 4 requests = %d, want 6", got)
	}

	for range 10 {
		swc.Allow()
	}
	if got := swc.Remaining(); got != 0 {
		t.Errorf("Remaining() when full = %d, want 0", got)
	}
}

func TestSlidingWindowCarriesPreviousWindow(t *testing.T) {
	const window = 300 * time.Millisecond
	swc := NewSlidingWindowCounter(10, window)

	// Fill the current window
	for range 10 {
		swc.Allow()
	}

	// Shortly after rotation the previous window's count still weighs
	// in at overlapRatio < 1, so some fresh capacity opens up but the
	// full limit does not: weighted = curr + prev*overlap.
	time.Sleep(window + 20*time.Millisecond)
	if got := swc.Remaining(); got >= 10 {
		t.Errorf("Remaining() right after rotation = %d, want < 10 (carried weight)", got)
	}
	admitted := 0
	for range 10 {
		if swc.Allow() {
			admitted++
		}
	}
	if admitted == 0 {
		t.Error("no request admitted after rotation, want partial capacity from decayed carry")
	}
	if admitted >= 10 {
		t.Errorf("admitted = %d requests right after rotation, want < 10 while the previous window still carries", admitted)
	}

	// Two idle windows later all weight is gone.
	time.Sleep(2*window + 50*time.Millisecond)
	if !swc.Allow() {
		t.Error("request after two idle windows should be allowed")
	}
}

func TestSlidingWindowConcurrentAccess(t *testing.T) {
	swc := NewSlidingWindowCounter(100, time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if swc.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("allowed = %d, want exactly 100", allowed)
	}
}
