// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
// This file contains the fallback wrapper for cross-provider failover.
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
)

// FallbackGenerator wraps an ordered chain of Generators.
// It implements three-layer fallback:
// 1. Retry with backoff (same provider)
// 2. Provider fallback (next provider in the chain)
// 3. Graceful degradation (caller falls back to the template answer)
type FallbackGenerator struct {
	chain       []Generator
	retryConfig RetryConfig
	met         *metrics.Metrics
	log         *logger.Logger
}

// NewFallbackGenerator creates a fallback-enabled generator over the
// provider chain, in order. met may be nil when metrics are disabled.
func NewFallbackGenerator(chain []Generator, cfg RetryConfig, met *metrics.Metrics, log *logger.Logger) *FallbackGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	return &FallbackGenerator{
		chain:       chain,
		retryConfig: cfg,
		met:         met,
		log:         log,
	}
}

// Generate tries each provider in order, with per-provider retry.
func (f *FallbackGenerator) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	var text string
	err := f.run(ctx, func(ctx context.Context, gen Generator) error {
		out, genErr := gen.Generate(ctx, prompt, systemPrompt, maxTokens)
		if genErr != nil {
			return genErr
		}
		text = out
		return nil
	})
	return text, err
}

// GenerateStream tries each provider in order. A provider that fails
// before emitting any chunk is retried or skipped; once chunks have been
// delivered the stream cannot be restarted, so mid-stream failures are
// returned to the caller.
func (f *FallbackGenerator) GenerateStream(ctx context.Context, prompt, systemPrompt string, maxTokens int, onChunk func(chunk string) error) error {
	var delivered bool
	err := f.run(ctx, func(ctx context.Context, gen Generator) error {
		return gen.GenerateStream(ctx, prompt, systemPrompt, maxTokens, func(chunk string) error {
			delivered = true
			return onChunk(chunk)
		})
	})
	if err != nil && delivered {
		return fmt.Errorf("stream interrupted: %w", err)
	}
	return err
}

// run executes op against the provider chain with retry and fallback.
func (f *FallbackGenerator) run(ctx context.Context, op func(ctx context.Context, gen Generator) error) error {
	if f == nil || len(f.chain) == 0 {
		return errors.New("no llm provider configured")
	}

	var lastErr error
	for i, gen := range f.chain {
		provider := gen.Provider()
		start := time.Now()

		err := f.withRetry(ctx, gen, func() error { return op(ctx, gen) })
		if err == nil {
			f.met.RecordLLMRequest(provider.String(), "success", time.Since(start))
			if i > 0 {
				f.met.RecordLLMFallback(f.chain[0].Provider().String(), provider.String())
			}
			return nil
		}
		lastErr = err
		f.met.RecordLLMRequest(provider.String(), "error", time.Since(start))

		action := ClassifyError(err)
		f.log.WithField("provider", provider.String()).
			WithField("action", action.String()).
			WithError(err).
			Warnf("llm provider failed")

		// Permanent errors and cancelled contexts stop the chain
		if action == ActionFail {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	f.log.WithField("providers", len(f.chain)).WithError(lastErr).Errorf("all llm providers failed")
	return fmt.Errorf("all providers failed: %w", lastErr)
}

// withRetry attempts the operation with full-jitter backoff between tries.
func (f *FallbackGenerator) withRetry(ctx context.Context, gen Generator, fn func() error) error {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if ClassifyError(err) != ActionRetry {
			return err
		}

		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)
		if !HasSufficientBudget(ctx, backoff) {
			return fmt.Errorf("timeout during retry: %w", lastErr)
		}

		f.met.RecordLLMRetry(gen.Provider().String())
		f.log.WithField("provider", gen.Provider().String()).
			WithField("attempt", attempt+1).
			WithField("backoff_ms", backoff.Milliseconds()).
			Debugf("retrying llm request")

		if err := Sleep(ctx, backoff); err != nil {
			return err
		}
	}

	return lastErr
}

// Provider returns the primary provider type.
func (f *FallbackGenerator) Provider() Provider {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Provider()
}

// Close closes every generator in the chain.
func (f *FallbackGenerator) Close() error {
	if f == nil {
		return nil
	}

	var errs []error
	for _, gen := range f.chain {
		if err := gen.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
