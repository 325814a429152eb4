// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
// This file contains factory functions for creating the provider chain.
package genai

import (
	"context"

	"github.com/bjtuwh/campus-assistant-go/internal/config"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
)

// CreateGenerator builds a FallbackGenerator from the configured provider
// order. Providers without an API key are skipped with a warning.
// Returns (nil, nil) when generation is disabled or no provider is usable;
// callers then serve template answers only.
func CreateGenerator(ctx context.Context, cfg config.LLMConfig, met *metrics.Metrics, log *logger.Logger) (Generator, error) {
	if !cfg.Enabled {
		log.Infof("llm generation disabled by configuration")
		return nil, nil //nolint:nilnil // Intentional: template-only mode
	}

	chain := make([]Generator, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch Provider(name) {
		case ProviderDashScope:
			gen, err := newDashScopeGenerator(cfg.DashScopeAPIKey, cfg.DashScopeBaseURL, cfg.DashScopeModel, log)
			if err != nil {
				log.WithField("provider", name).WithError(err).Warnf("failed to create generator")
				continue
			}
			if gen != nil {
				chain = append(chain, gen)
			}
		case ProviderGemini:
			gen, err := newGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
			if err != nil {
				log.WithField("provider", name).WithError(err).Warnf("failed to create generator")
				continue
			}
			if gen != nil {
				chain = append(chain, gen)
			}
		default:
			log.WithField("provider", name).Warnf("unknown llm provider, skipping")
		}
	}

	if len(chain) == 0 {
		log.Infof("no llm provider configured, serving template answers")
		return nil, nil //nolint:nilnil // Intentional: template-only mode
	}

	retryCfg := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}

	log.WithField("primary", chain[0].Provider().String()).
		WithField("chain_size", len(chain)).
		Infof("llm generator configured")

	return NewFallbackGenerator(chain, retryCfg, met, log), nil
}
