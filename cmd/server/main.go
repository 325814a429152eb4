package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/bjtuwh/campus-assistant-go/internal/buildinfo"
	"github.com/bjtuwh/campus-assistant-go/internal/config"
	"github.com/bjtuwh/campus-assistant-go/internal/genai"
	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
	"github.com/bjtuwh/campus-assistant-go/internal/objstore"
	"github.com/bjtuwh/campus-assistant-go/internal/ratelimit"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
	"github.com/bjtuwh/campus-assistant-go/internal/sentry"
	"github.com/bjtuwh/campus-assistant-go/internal/skills"
	"github.com/bjtuwh/campus-assistant-go/internal/snapshot"
	"github.com/bjtuwh/campus-assistant-go/internal/storage"
	"github.com/bjtuwh/campus-assistant-go/internal/timeouts"
	"github.com/bjtuwh/campus-assistant-go/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.BetterStack.Enabled {
		log = logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
			BetterStackToken:    cfg.BetterStack.Token,
			BetterStackEndpoint: cfg.BetterStack.Endpoint,
		})
	} else {
		log = logger.New(cfg.LogLevel)
	}
	log.WithField("version", buildinfo.Version).Info("Starting campus assistant server")

	// Initialize error tracking
	release := cfg.Sentry.Release
	if release == "" {
		release = buildinfo.Version
	}
	if err := sentry.Initialize(cfg.Sentry, release); err != nil {
		log.WithError(err).Fatal("Failed to initialize sentry")
	}
	defer sentry.Flush(2 * time.Second)

	// Connect to the visit-stats database
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to open stats database")
	}
	defer func() { _ = db.Close() }()
	statsRepo := storage.NewStatsRepository(db)
	log.WithField("path", cfg.SQLitePath()).Info("Stats database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Load the knowledge base from the local file first; snapshot sync
	// (when enabled) replaces it once the object store is reachable.
	store, err := loadKnowledge(cfg.KnowledgePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load knowledge base")
	}
	m.SetKnowledgeEntries(store.Len())
	log.WithField("path", cfg.KnowledgePath).
		WithField("entries", store.Len()).
		Info("Knowledge base loaded")

	// Optional knowledge snapshot sync from object storage
	var snapManager *snapshot.Manager
	if cfg.Snapshot.Enabled {
		objClient, err := objstore.New(context.Background(), objstore.Config{
			Endpoint:        cfg.Snapshot.Endpoint,
			AccessKeyID:     cfg.Snapshot.AccessKeyID,
			SecretAccessKey: cfg.Snapshot.SecretAccessKey,
			Bucket:          cfg.Snapshot.Bucket,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to create object store client")
		}
		snapManager = snapshot.New(objClient, store, snapshot.Config{
			Key:          cfg.Snapshot.ObjectKey,
			PollInterval: cfg.Snapshot.PollInterval,
		}, m, log)
		if err := snapManager.Load(context.Background()); err != nil {
			// The local file copy keeps the assistant serving
			log.WithError(err).Warn("Initial snapshot load failed, serving local knowledge base")
		}
	}

	// Create the LLM generator chain (nil when generation is disabled)
	generator, err := genai.CreateGenerator(context.Background(), cfg.LLM, m, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create LLM generator")
	}
	if generator == nil {
		log.Info("LLM generation disabled, serving template answers")
	}

	// Answer pipeline
	classifier := intent.NewClassifier(log)
	retriever := search.NewRetriever(store, log)
	skillRegistry := skills.NewRegistry()
	service := web.NewService(classifier, retriever, skillRegistry, generator, cfg.LLM.Timeout, cfg.RetrievalLimit, m, log)

	// Rate limiters
	globalLimiter := ratelimit.NewSlidingWindowCounter(cfg.GlobalRateLimit, cfg.GlobalRateWindow)
	ipLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "ip",
		MaxRequests:   cfg.IPRateLimit,
		Window:        cfg.IPRateWindow,
		CleanupPeriod: timeouts.RateLimiterCleanupInterval,
		Metrics:       m,
	})

	handler := web.NewHandler(service, web.HandlerConfig{
		Stats:      statsRepo,
		IPLimiter:  ipLimiter,
		ChunkSize:  cfg.StreamChunkSize,
		ChunkDelay: cfg.StreamChunkDelay,
		Metrics:    m,
	}, log)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, handler, store, db, registry, cfg, rateLimitMiddleware(globalLimiter, ipLimiter, m))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  timeouts.HTTPRead,
		WriteTimeout: timeouts.HTTPWrite,
		IdleTimeout:  timeouts.HTTPIdle,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var background errgroup.Group

	// Visit-stats retention sweep
	background.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in stats cleanup goroutine")
			}
		}()
		cleanupVisitStats(ctx, statsRepo, cfg.StatsRetentionDays, log)
		return nil
	})

	// Knowledge snapshot polling
	if snapManager != nil {
		snapManager.Start(ctx)
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop background work
	cancel()
	if snapManager != nil {
		snapManager.Stop()
	}
	ipLimiter.Stop()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		_ = background.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Shutdown server gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close the LLM provider chain
	if generator != nil {
		if err := generator.Close(); err != nil {
			log.WithError(err).Error("Failed to close LLM generator")
		}
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}

// loadKnowledge reads and parses the knowledge base document from disk.
func loadKnowledge(path string) (*knowledge.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	snap, err := knowledge.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	return knowledge.NewStore(snap), nil
}
