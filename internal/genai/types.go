// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
//
// Architecture:
// - DashScope: Uses github.com/openai/openai-go/v3 (OpenAI-compatible mode)
// - Gemini: Uses google.golang.org/genai (official SDK)
//
// Fallback Strategy (2-layer):
// 1. Retry: Same provider retried with exponential backoff
// 2. Provider Chain: Next provider in the configured provider list
package genai

import (
	"context"
	"errors"
	"time"
)

// ErrGenerationDisabled is returned when no LLM provider is configured
// and a caller asks for generated text anyway.
var ErrGenerationDisabled = errors.New("llm generation disabled")

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderDashScope represents Alibaba's DashScope API (OpenAI-compatible mode).
	ProviderDashScope Provider = "dashscope"
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
)

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Generation defaults shared by all providers. The original assistant
// tuned these for warm, non-repetitive Chinese answers.
const (
	// DefaultMaxTokens bounds a single generated answer.
	DefaultMaxTokens = 1500
	// DefaultTemperature keeps answers natural without drifting from the
	// retrieved knowledge.
	DefaultTemperature = 0.7
	// DefaultTopP is the nucleus-sampling cutoff.
	DefaultTopP = 0.8
)

// Generator defines the interface for answer generation.
// Implementations include DashScope (OpenAI-compatible) and Gemini (native).
type Generator interface {
	// Generate produces a complete answer for the prompt.
	Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error)
	// GenerateStream produces an answer incrementally, invoking onChunk for
	// each text fragment as the model emits it. onChunk runs on the calling
	// goroutine; returning an error from it aborts the stream.
	GenerateStream(ctx context.Context, prompt, systemPrompt string, maxTokens int, onChunk func(chunk string) error) error
	// Provider returns the provider type for logging and metrics.
	Provider() Provider
	// Close releases any resources held by the generator.
	Close() error
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int
	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry settings used when the
// configuration does not override them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	}
}
