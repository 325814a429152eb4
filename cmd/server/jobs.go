package main

import (
	"context"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/storage"
	"github.com/bjtuwh/campus-assistant-go/internal/timeouts"
)

// cleanupVisitStats periodically deletes visit rows past the retention
// window so the stats database stays small.
func cleanupVisitStats(ctx context.Context, repo *storage.StatsRepository, retentionDays int, log *logger.Logger) {
	// Run initial cleanup after a delay to let the server stabilize
	select {
	case <-ctx.Done():
		return
	case <-time.After(timeouts.StatsCleanupInitialDelay):
		performStatsCleanup(ctx, repo, retentionDays, log)
	}

	ticker := time.NewTicker(timeouts.StatsCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performStatsCleanup(ctx, repo, retentionDays, log)
		}
	}
}

func performStatsCleanup(ctx context.Context, repo *storage.StatsRepository, retentionDays int, log *logger.Logger) {
	start := time.Now()
	if err := repo.Cleanup(ctx, retentionDays); err != nil {
		log.WithError(err).Error("Failed to clean up visit stats")
		return
	}
	log.WithField("retention_days", retentionDays).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("Visit stats cleanup complete")
}
