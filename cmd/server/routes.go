package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bjtuwh/campus-assistant-go/internal/config"
	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/storage"
	"github.com/bjtuwh/campus-assistant-go/internal/web"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, handler *web.Handler, store *knowledge.Store, db *storage.DB, registry *prometheus.Registry, cfg *config.Config, rateLimited gin.HandlerFunc) {
	// Root endpoint - redirect to the project page
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/bjtuwh/campus-assistant-go")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - ready only when the knowledge base is loaded and
	// the stats database answers
	readyHandler := func(c *gin.Context) {
		entries := store.Len()
		if entries == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "knowledge base empty",
			})
			return
		}

		if err := db.Conn().PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"knowledge": gin.H{
				"entries": entries,
			},
			"llm": cfg.LLM.Available(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Assistant API, rate limited as a group
	api := router.Group("/api", rateLimited)
	api.POST("/ask", handler.HandleAsk)
	api.GET("/skills", handler.HandleSkills)
	api.GET("/stats", handler.HandleStats)

	// WebSocket streaming endpoint. Per-connection limits are enforced
	// inside the handler so rejected clients get a proper close frame.
	router.GET("/ws", handler.HandleWS)

	// Prometheus metrics endpoint, optionally behind Basic Auth
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsAuth.Enabled {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsAuth.Username: cfg.MetricsAuth.Password,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
