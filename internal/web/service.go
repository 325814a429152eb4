// Package web exposes the assistant over HTTP and WebSocket: a
// question/answer API, quick-action and visit-stat endpoints, and a
// streaming chat endpoint.
package web

import (
	"context"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/genai"
	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
	"github.com/bjtuwh/campus-assistant-go/internal/skills"
)

// Answer is the full response document for one question. Field names
// match the public API.
type Answer struct {
	Success          bool              `json:"success"`
	Content          string            `json:"content"`
	Sources          []skills.Source   `json:"sources"`
	Confidence       float64           `json:"confidence"`
	SkillUsed        string            `json:"skill_used"`
	IntentConfidence float64           `json:"intent_confidence"`
	Entities         map[string]string `json:"entities"`
}

// Service runs the answer pipeline: classify, retrieve, compose.
type Service struct {
	classifier *intent.Classifier
	retriever  *search.Retriever
	registry   *skills.Registry
	generator  genai.Generator // nil means template answers only
	llmTimeout time.Duration   // deadline for one generation, stream included
	limit      int             // knowledge entries per answer
	met        *metrics.Metrics
	log        *logger.Logger
}

// NewService wires the pipeline. generator and met may be nil; a
// positive llmTimeout bounds every generation call.
func NewService(classifier *intent.Classifier, retriever *search.Retriever, registry *skills.Registry, generator genai.Generator, llmTimeout time.Duration, limit int, met *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		classifier: classifier,
		retriever:  retriever,
		registry:   registry,
		generator:  generator,
		llmTimeout: llmTimeout,
		limit:      limit,
		met:        met,
		log:        log,
	}
}

// Answer classifies the question, retrieves knowledge, and composes the
// templated answer. It never calls the LLM; streaming callers layer
// generation on top via Generator.
func (s *Service) Answer(question string) (Answer, []search.ScoredEntry) {
	start := time.Now()

	intentRes := s.classifier.Classify(question)
	s.met.RecordIntent(string(intentRes.Skill), intentRes.Confidence)

	retrievalStart := time.Now()
	results := s.retriever.Retrieve(question, s.limit, intentRes.Filters)
	s.met.RecordRetrieval(time.Since(retrievalStart), len(results))

	composed := s.registry.Compose(intentRes.Skill, question, intentRes.Entities, results)

	status := "success"
	if !composed.Success {
		status = "fallback"
	}
	s.met.RecordQuery(composed.Skill, status, time.Since(start))

	s.log.WithSkill(composed.Skill).
		WithField("confidence", composed.Confidence).
		WithField("results", len(results)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("question answered")

	return Answer{
		Success:          composed.Success,
		Content:          composed.Text,
		Sources:          composed.Sources,
		Confidence:       composed.Confidence,
		SkillUsed:        composed.Skill,
		IntentConfidence: intentRes.Confidence,
		Entities:         intentRes.Entities,
	}, results
}

// Generator returns the configured LLM generator, or nil.
func (s *Service) Generator() genai.Generator {
	return s.generator
}

// GenerateAnswer produces an LLM answer over the retrieved context in
// one shot. Returns ("", err) when no generator is configured or the
// provider chain fails; callers fall back to the template answer.
func (s *Service) GenerateAnswer(ctx context.Context, question string, results []search.ScoredEntry) (string, error) {
	if s.generator == nil {
		return "", genai.ErrGenerationDisabled
	}
	genCtx, cancel := s.generationContext(ctx)
	defer cancel()
	prompt := genai.BuildRAGPrompt(question, skills.BuildContext(question, results))
	return s.generator.Generate(genCtx, prompt, genai.AssistantSystemPrompt, genai.DefaultMaxTokens)
}

// StreamAnswer streams an LLM answer over the retrieved context. The
// timeout covers the whole stream, not just the first chunk.
func (s *Service) StreamAnswer(ctx context.Context, question string, results []search.ScoredEntry, onChunk func(chunk string) error) error {
	if s.generator == nil {
		return genai.ErrGenerationDisabled
	}
	genCtx, cancel := s.generationContext(ctx)
	defer cancel()
	prompt := genai.BuildRAGPrompt(question, skills.BuildContext(question, results))
	return s.generator.GenerateStream(genCtx, prompt, genai.AssistantSystemPrompt, genai.DefaultMaxTokens, onChunk)
}

// generationContext derives the deadline every provider call runs
// under. A hung provider must not stall the request past the
// configured timeout, WebSocket included.
func (s *Service) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.llmTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.llmTimeout)
}

// QuickActions returns the per-skill example queries.
func (s *Service) QuickActions() map[intent.Skill][]skills.QuickAction {
	return s.registry.QuickActions()
}
