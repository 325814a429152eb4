package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.RetrievalLimit != 3 {
		t.Errorf("RetrievalLimit = %d, want 3", cfg.RetrievalLimit)
	}
	if cfg.StatsRetentionDays != 30 {
		t.Errorf("StatsRetentionDays = %d, want 30", cfg.StatsRetentionDays)
	}
	if cfg.IPRateLimit != 30 || cfg.IPRateWindow != time.Minute {
		t.Errorf("per-IP limit = %d per %v, want 30 per 1m", cfg.IPRateLimit, cfg.IPRateWindow)
	}
	if cfg.LLM.DashScopeBaseURL != DefaultDashScopeBaseURL {
		t.Errorf("DashScopeBaseURL = %s", cfg.LLM.DashScopeBaseURL)
	}
	if len(cfg.LLM.Providers) != 2 || cfg.LLM.Providers[0] != "dashscope" {
		t.Errorf("Providers = %v, want [dashscope gemini]", cfg.LLM.Providers)
	}
	if cfg.Snapshot.Enabled || cfg.Sentry.Enabled {
		t.Error("optional features should default to disabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvRetrievalLimit, "5")
	t.Setenv(EnvShutdownTimeout, "10s")
	t.Setenv(EnvLLMProviders, "gemini, dashscope")
	t.Setenv(EnvIPRateWindow, "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.RetrievalLimit != 5 {
		t.Errorf("RetrievalLimit = %d, want 5", cfg.RetrievalLimit)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if len(cfg.LLM.Providers) != 2 || cfg.LLM.Providers[0] != "gemini" {
		t.Errorf("Providers = %v, want [gemini dashscope]", cfg.LLM.Providers)
	}
	if cfg.IPRateWindow != 30*time.Second {
		t.Errorf("IPRateWindow = %v, want 30s", cfg.IPRateWindow)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv(EnvRetrievalLimit, "three")
	t.Setenv(EnvShutdownTimeout, "forever")
	t.Setenv(EnvLLMEnabled, "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RetrievalLimit != 3 {
		t.Errorf("RetrievalLimit = %d, want default 3", cfg.RetrievalLimit)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default 30s", cfg.ShutdownTimeout)
	}
	if !cfg.LLM.Enabled {
		t.Error("LLM.Enabled = false, want default true")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantSub: EnvPort,
		},
		{
			name:    "missing knowledge path",
			mutate:  func(c *Config) { c.KnowledgePath = "" },
			wantSub: EnvKnowledgePath,
		},
		{
			name:    "non-positive retrieval limit",
			mutate:  func(c *Config) { c.RetrievalLimit = 0 },
			wantSub: EnvRetrievalLimit,
		},
		{
			name:    "unknown llm provider",
			mutate:  func(c *Config) { c.LLM.Providers = []string{"openrouter"} },
			wantSub: "unknown provider",
		},
		{
			name: "snapshot enabled without bucket",
			mutate: func(c *Config) {
				c.Snapshot.Enabled = true
				c.Snapshot.Endpoint = "https://example.r2.cloudflarestorage.com"
				c.Snapshot.AccessKeyID = "id"
				c.Snapshot.SecretAccessKey = "secret"
			},
			wantSub: EnvSnapshotBucket,
		},
		{
			name: "sentry enabled without dsn",
			mutate: func(c *Config) {
				c.Sentry.Enabled = true
			},
			wantSub: EnvSentryDSN,
		},
		{
			name: "sentry sample rate out of range",
			mutate: func(c *Config) {
				c.Sentry.Enabled = true
				c.Sentry.DSN = "https://key@sentry.example/1"
				c.Sentry.SampleRate = 1.5
			},
			wantSub: "sample rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate returned nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLLMConfigProviders(t *testing.T) {
	cfg := LLMConfig{
		Enabled:         true,
		Providers:       []string{"dashscope", "gemini"},
		DashScopeAPIKey: "sk-test",
	}

	if !cfg.HasProvider("dashscope") {
		t.Error("HasProvider(dashscope) = false with key set")
	}
	if cfg.HasProvider("gemini") {
		t.Error("HasProvider(gemini) = true without key")
	}
	if !cfg.Available() {
		t.Error("Available = false with one configured provider")
	}

	cfg.Providers = []string{"gemini"}
	if cfg.HasProvider("dashscope") {
		t.Error("HasProvider(dashscope) = true when not in fallback order")
	}

	cfg = LLMConfig{Enabled: false, DashScopeAPIKey: "sk-test", Providers: []string{"dashscope"}}
	if cfg.Available() {
		t.Error("Available = true when disabled")
	}
}
