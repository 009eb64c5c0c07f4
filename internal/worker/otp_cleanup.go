package worker

import (
	"context"
	"time"

	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/logger"
)

// OTPCleanupWorker periodically purges used and expired OTP rows so the table
// never accumulates stale credentials.
type OTPCleanupWorker struct {
	repo            repository.OTPRepository
	cleanupInterval time.Duration
	logger          *logger.Logger
}

func NewOTPCleanupWorker(repo repository.OTPRepository, cleanupInterval time.Duration, log *logger.Logger) *OTPCleanupWorker {
	return &OTPCleanupWorker{
		repo:            repo,
		cleanupInterval: cleanupInterval,
		logger:          log,
	}
}

func (w *OTPCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error(err, "failed to clean up OTPs")
			}
		}
	}
}

func (w *OTPCleanupWorker) cleanup(ctx context.Context) error {
	rows, err := w.repo.DeleteStale(ctx, time.Now())
	if err != nil {
		return err
	}
	if rows > 0 {
		w.logger.Info("cleaned up stale OTPs", "rows", rows)
	}
	return nil
}
