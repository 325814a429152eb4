package objstore

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewRequiresAllFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty config", Config{}},
		{"missing endpoint", Config{AccessKeyID: "k", SecretAccessKey: "s", Bucket: "b"}},
		{"missing access key", Config{Endpoint: "https://example.com", SecretAccessKey: "s", Bucket: "b"}},
		{"missing secret", Config{Endpoint: "https://example.com", AccessKeyID: "k", Bucket: "b"}},
		{"missing bucket", Config{Endpoint: "https://example.com", AccessKeyID: "k", SecretAccessKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.cfg); err == nil {
				t.Error("New() should fail with incomplete config")
			}
		})
	}
}

func TestNewWithCompleteConfig(t *testing.T) {
	client, err := New(context.Background(), Config{
		Endpoint:        "https://account.r2.cloudflarestorage.com",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "knowledge",
	})
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	if client == nil {
		t.Fatal("New() returned nil client")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := strings.Repeat("门诊报销比例为80%。", 200)

	var compressed bytes.Buffer
	if err := Compress(&compressed, strings.NewReader(original)); err != nil {
		t.Fatalf("Compress() = %v", err)
	}
	if compressed.Len() >= len(original) {
		t.Errorf("compressed %d bytes, want smaller than %d", compressed.Len(), len(original))
	}

	got, err := Decompress(&compressed)
	if err != nil {
		t.Fatalf("Decompress() = %v", err)
	}
	if string(got) != original {
		t.Error("round trip did not preserve content")
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	if _, err := Decompress(strings.NewReader("not a zstd stream")); err == nil {
		t.Error("Decompress() of garbage should fail")
	}
}

func TestTrimETag(t *testing.T) {
	quoted := `"abc123"`
	if got := trimETag(&quoted); got != "abc123" {
		t.Errorf("trimETag(%q) = %q, want abc123", quoted, got)
	}
	if got := trimETag(nil); got != "" {
		t.Errorf("trimETag(nil) = %q, want empty", got)
	}
}
