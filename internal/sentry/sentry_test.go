package sentry

import (
	"testing"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/config"
)

func TestInitializeDisabled(t *testing.T) {
	if err := Initialize(config.SentryConfig{Enabled: false, DSN: "https://key@sentry.example.com/1"}, "v1"); err != nil {
		t.Errorf("Initialize disabled = %v, want nil", err)
	}
}

func TestInitializeEmptyDSN(t *testing.T) {
	if err := Initialize(config.SentryConfig{Enabled: true}, "v1"); err != nil {
		t.Errorf("Initialize without DSN = %v, want nil", err)
	}
	if IsEnabled() {
		t.Error("IsEnabled() should be false without a DSN")
	}
}

func TestInitializeBadSampleRate(t *testing.T) {
	err := Initialize(config.SentryConfig{
		Enabled:    true,
		DSN:        "https://key@sentry.example.com/1",
		SampleRate: 1.5,
	}, "v1")
	if err == nil {
		t.Error("sample rate > 1 should be rejected")
	}
}

func TestInitializeValidConfig(t *testing.T) {
	// Cannot use t.Parallel() as Sentry uses global state

	err := Initialize(config.SentryConfig{
		Enabled:     true,
		DSN:         "https://key@sentry.example.com/1",
		Environment: "test",
		SampleRate:  1.0,
	}, "test-release")
	if err != nil {
		t.Fatalf("Initialize = %v, want nil", err)
	}
	if !IsEnabled() {
		t.Error("IsEnabled() should be true after initialization")
	}

	Flush(time.Second)
}

func TestFlushWithoutEvents(t *testing.T) {
	if !Flush(100 * time.Millisecond) {
		t.Error("Flush with no pending events should return true")
	}
}
