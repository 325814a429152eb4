// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
// This file contains the Gemini implementation via the official SDK.
package genai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
)

// geminiGenerator produces answers through the Gemini API.
// It implements the Generator interface.
type geminiGenerator struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// newGeminiGenerator creates a Gemini-backed generator.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiGenerator(ctx context.Context, apiKey, model string, log *logger.Logger) (*geminiGenerator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiGenerator{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (g *geminiGenerator) config(systemPrompt string, maxTokens int) *genai.GenerateContentConfig {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](DefaultTemperature),
		TopP:            genai.Ptr[float32](DefaultTopP),
		MaxOutputTokens: int32(maxTokens),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return config
}

// Generate produces a complete answer in one call.
func (g *geminiGenerator) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	start := time.Now()
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		g.config(systemPrompt, maxTokens),
	)
	duration := time.Since(start)

	if err != nil {
		g.log.WithField("model", g.model).
			WithField("duration_ms", duration.Milliseconds()).
			WithError(err).
			Warnf("gemini generation failed")
		return "", domerrors.NewLLMError(ProviderGemini.String(), 0, err)
	}

	text := result.Text()
	if text == "" {
		return "", domerrors.NewLLMError(ProviderGemini.String(), 0, fmt.Errorf("empty response: no candidates"))
	}

	if result.UsageMetadata != nil {
		g.log.WithField("model", g.model).
			WithField("duration_ms", duration.Milliseconds()).
			WithField("total_tokens", result.UsageMetadata.TotalTokenCount).
			Debugf("gemini generation finished")
	}

	return text, nil
}

// GenerateStream streams answer fragments as the model emits them.
func (g *geminiGenerator) GenerateStream(ctx context.Context, prompt, systemPrompt string, maxTokens int, onChunk func(chunk string) error) error {
	start := time.Now()

	var chunks int
	for resp, err := range g.client.Models.GenerateContentStream(
		ctx,
		g.model,
		genai.Text(prompt),
		g.config(systemPrompt, maxTokens),
	) {
		if err != nil {
			g.log.WithField("model", g.model).
				WithField("chunks", chunks).
				WithError(err).
				Warnf("gemini stream failed")
			return domerrors.NewLLMError(ProviderGemini.String(), 0, err)
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		chunks++
		if err := onChunk(text); err != nil {
			return err
		}
	}

	g.log.WithField("model", g.model).
		WithField("chunks", chunks).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debugf("gemini stream finished")

	return nil
}

// Provider returns the provider type for logging and metrics.
func (g *geminiGenerator) Provider() Provider {
	return ProviderGemini
}

// Close releases resources.
// Note: genai.Client does not require explicit cleanup in current SDK version.
func (g *geminiGenerator) Close() error {
	return nil
}
