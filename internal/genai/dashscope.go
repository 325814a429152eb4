// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
// This file contains the DashScope implementation via the
// OpenAI-compatible mode endpoint.
package genai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
)

// dashScopeGenerator produces answers through DashScope's
// OpenAI-compatible chat completions API (Qwen models).
// It implements the Generator interface.
type dashScopeGenerator struct {
	client openai.Client
	model  string
	log    *logger.Logger
}

// newDashScopeGenerator creates a DashScope-backed generator.
// Returns nil if apiKey is empty (provider disabled).
func newDashScopeGenerator(apiKey, baseURL, model string, log *logger.Logger) (*dashScopeGenerator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if baseURL == "" {
		return nil, fmt.Errorf("dashscope base URL is required")
	}
	if model == "" {
		return nil, fmt.Errorf("dashscope model is required")
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &dashScopeGenerator{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (g *dashScopeGenerator) params(prompt, systemPrompt string, maxTokens int) openai.ChatCompletionNewParams {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	return openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messages,
		Temperature: openai.Float(DefaultTemperature),
		TopP:        openai.Float(DefaultTopP),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
}

// Generate produces a complete answer in one call.
func (g *dashScopeGenerator) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, g.params(prompt, systemPrompt, maxTokens))
	duration := time.Since(start)

	if err != nil {
		g.log.WithField("model", g.model).
			WithField("duration_ms", duration.Milliseconds()).
			WithError(err).
			Warnf("dashscope completion failed")
		return "", domerrors.NewLLMError(ProviderDashScope.String(), 0, err)
	}

	if len(resp.Choices) == 0 {
		return "", domerrors.NewLLMError(ProviderDashScope.String(), 0, fmt.Errorf("empty response: no choices"))
	}

	g.log.WithField("model", g.model).
		WithField("duration_ms", duration.Milliseconds()).
		WithField("total_tokens", resp.Usage.TotalTokens).
		Debugf("dashscope completion finished")

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream streams answer fragments as the model emits them.
func (g *dashScopeGenerator) GenerateStream(ctx context.Context, prompt, systemPrompt string, maxTokens int, onChunk func(chunk string) error) error {
	start := time.Now()
	stream := g.client.Chat.Completions.NewStreaming(ctx, g.params(prompt, systemPrompt, maxTokens))
	defer stream.Close()

	var chunks int
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		chunks++
		if err := onChunk(delta); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		g.log.WithField("model", g.model).
			WithField("chunks", chunks).
			WithError(err).
			Warnf("dashscope stream failed")
		return domerrors.NewLLMError(ProviderDashScope.String(), 0, err)
	}

	g.log.WithField("model", g.model).
		WithField("chunks", chunks).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debugf("dashscope stream finished")

	return nil
}

// Provider returns the provider type for logging and metrics.
func (g *dashScopeGenerator) Provider() Provider {
	return ProviderDashScope
}

// Close releases resources. The OpenAI client holds no persistent
// connections that require cleanup.
func (g *dashScopeGenerator) Close() error {
	return nil
}
