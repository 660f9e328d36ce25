// Command cleanup removes audit log entries older than the configured
// retention period. It is intended to be invoked by an external cron job,
// not as an in-process goroutine. A retention of zero keeps everything.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/gratitude-backend/internal/app"
	"github.com/heartmarshall/gratitude-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if cfg.Audit.RetentionDays == 0 {
		logger.Info("audit retention disabled, nothing to do")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	be, err := app.OpenBackend(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer be.Close()

	threshold := time.Now().AddDate(0, 0, -cfg.Audit.RetentionDays)

	deleted, err := be.Audit.DeleteBefore(ctx, threshold)
	if err != nil {
		logger.Error("audit cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("audit cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
