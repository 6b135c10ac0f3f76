// Command cleanup deletes rank reports older than the retention window.
// Intended to run on a schedule (cron or a container job).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rankscout/rankscout/internal/repository"
)

const defaultRetention = 90 * 24 * time.Hour

// reportPurger is the slice of the repository the cleanup needs.
type reportPurger interface {
	DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func main() {
	retention := flag.Duration("retention", defaultRetention, "delete reports older than this duration")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	deleted, err := run(ctx, repo, *retention, logger)
	if err != nil {
		logger.Error("cleanup failed", "error", err)
		os.Exit(1)
	}

	logger.Info("cleanup completed", "deleted", deleted)
}

// run purges reports older than the retention window and returns the
// number of rows removed.
func run(ctx context.Context, purger reportPurger, retention time.Duration, logger *slog.Logger) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", retention)
	}

	cutoff := time.Now().Add(-retention)
	logger.Info("deleting reports", "cutoff", cutoff.Format(time.RFC3339))

	return purger.DeleteReportsBefore(ctx, cutoff)
}
