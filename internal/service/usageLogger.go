package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/repository"
)

// UsageLogger records successful gated feature calls asynchronously.
// Entries are buffered and batch-inserted so accounting never blocks a
// request; when the buffer is full the entry is dropped (the quota
// counters, not this log, are the enforcement source of truth).
type UsageLogger struct {
	repo    *repository.UsageLogRepository
	entries chan models.FeatureUsageLog
	stop    chan struct{}
}

func NewUsageLogger(repo *repository.UsageLogRepository, bufferSize int) *UsageLogger {
	return &UsageLogger{
		repo:    repo,
		entries: make(chan models.FeatureUsageLog, bufferSize),
		stop:    make(chan struct{}),
	}
}

// Start launches the background worker that batch-inserts entries.
func (l *UsageLogger) Start() {
	go func() {
		batch := make([]*models.FeatureUsageLog, 0, 100)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		flush := func() {
			if len(batch) == 0 {
				return
			}
			if err := l.repo.CreateBatch(context.Background(), batch); err != nil {
				log.Printf("Failed to insert usage logs: %v", err)
			}
			batch = make([]*models.FeatureUsageLog, 0, 100)
		}

		for {
			select {
			case entry := <-l.entries:
				e := entry
				batch = append(batch, &e)
				if len(batch) >= 100 {
					flush()
				}
			case <-ticker.C:
				flush()
			case <-l.stop:
				flush()
				return
			}
		}
	}()
}

func (l *UsageLogger) Stop() {
	close(l.stop)
}

// Log queues one usage entry without blocking.
func (l *UsageLogger) Log(directorID, academyID uuid.UUID, studentID *uuid.UUID, feature string) {
	entry := models.FeatureUsageLog{
		Timestamp:  time.Now().UTC(),
		DirectorID: directorID,
		AcademyID:  academyID,
		StudentID:  studentID,
		Feature:    feature,
	}

	select {
	case l.entries <- entry:
	default:
		log.Printf("Usage log channel full, skipping entry for director %s", directorID)
	}
}

// PurgeOld deletes entries older than the retention window. Wired to
// the nightly cron job.
func (l *UsageLogger) PurgeOld(ctx context.Context, retention time.Duration) {
	deleted, err := l.repo.DeleteOldLogs(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		log.Printf("Failed to purge old usage logs: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("Purged %d usage log entries past retention", deleted)
	}
}
