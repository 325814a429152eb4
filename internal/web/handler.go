package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
	"github.com/bjtuwh/campus-assistant-go/internal/ratelimit"
	"github.com/bjtuwh/campus-assistant-go/internal/storage"
)

// Handler serves the assistant API endpoints.
type Handler struct {
	service    *Service
	stats      *storage.StatsRepository // nil disables visit recording
	ipLimiter  *ratelimit.KeyedLimiter  // nil disables per-IP limits on /ws
	chunkSize  int
	chunkDelay time.Duration
	met        *metrics.Metrics
	log        *logger.Logger
}

// HandlerConfig carries the optional collaborators of a Handler.
type HandlerConfig struct {
	Stats      *storage.StatsRepository
	IPLimiter  *ratelimit.KeyedLimiter
	ChunkSize  int
	ChunkDelay time.Duration
	Metrics    *metrics.Metrics
}

// NewHandler builds the API handler around the answer service.
func NewHandler(service *Service, cfg HandlerConfig, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		stats:      cfg.Stats,
		ipLimiter:  cfg.IPLimiter,
		chunkSize:  cfg.ChunkSize,
		chunkDelay: cfg.ChunkDelay,
		met:        cfg.Metrics,
		log:        log,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// HandleAsk answers a single question. When an LLM generator is
// configured the templated answer's content is replaced by the
// generated one; generation failures fall back to the template.
func (h *Handler) HandleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"content":    msgEmptyQuestion,
			"skill_used": "error",
		})
		return
	}

	question, rejection := validateQuestion(req.Question)
	if rejection != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"content":    rejection,
			"skill_used": "error",
		})
		return
	}

	answer, results := h.service.Answer(question)

	if h.service.Generator() != nil {
		generated, err := h.service.GenerateAnswer(c.Request.Context(), question, results)
		if err != nil {
			h.log.WithError(err).Warn("llm generation failed, using template answer")
		} else {
			answer.Content = generated
		}
	}

	h.recordVisit(c, "/api/ask", answer.SkillUsed, answer.IntentConfidence)
	c.JSON(http.StatusOK, answer)
}

// HandleSkills lists each skill's example queries for client quick
// actions.
func (h *Handler) HandleSkills(c *gin.Context) {
	actions := h.service.QuickActions()
	skillList := make(map[string][]gin.H, len(actions))
	for skill, list := range actions {
		items := make([]gin.H, 0, len(list))
		for _, a := range list {
			items = append(items, gin.H{"title": a.Title, "query": a.Query})
		}
		skillList[string(skill)] = items
	}

	h.recordVisit(c, "/api/skills", "", 0)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"skills":  skillList,
	})
}

// HandleStats reports the aggregated visit statistics.
func (h *Handler) HandleStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "statistics storage not configured",
		})
		return
	}

	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to read visit statistics")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to read statistics",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// recordVisit persists one visit row. Storage failures are logged, not
// surfaced: statistics must never break an answer.
func (h *Handler) recordVisit(c *gin.Context, endpoint, skill string, confidence float64) {
	if h.stats == nil {
		return
	}
	visit := storage.Visit{
		Endpoint:   endpoint,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Skill:      skill,
		Confidence: confidence,
		At:         time.Now(),
	}
	if err := h.stats.RecordVisit(c.Request.Context(), visit); err != nil {
		h.log.WithError(err).Warn("failed to record visit")
	}
}
