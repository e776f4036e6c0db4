package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/storage"
)

type UsageLogRepository struct {
	db *storage.Postgres
}

func NewUsageLogRepository(db *storage.Postgres) *UsageLogRepository {
	return &UsageLogRepository{db: db}
}

// Inserts a new usage log
func (r *UsageLogRepository) Create(ctx context.Context, entry *models.FeatureUsageLog) error {
	return r.db.DB.WithContext(ctx).Create(entry).Error
}

// Inserts multiple usage logs (for batch insertion)
func (r *UsageLogRepository) CreateBatch(ctx context.Context, entries []*models.FeatureUsageLog) error {
	if len(entries) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Create(&entries).Error
}

// Retrieves a director's usage within a time range
func (r *UsageLogRepository) FindByDirector(ctx context.Context, directorID uuid.UUID, from, to time.Time, limit, offset int) ([]models.FeatureUsageLog, error) {
	var entries []models.FeatureUsageLog
	err := r.db.DB.WithContext(ctx).
		Where("director_id = ? AND timestamp BETWEEN ? AND ?", directorID, from, to).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error

	return entries, err
}

// Counts a director's uses per feature since the given time
func (r *UsageLogRepository) CountByFeatureSince(ctx context.Context, directorID uuid.UUID, since time.Time) (map[string]int64, error) {
	rows, err := r.db.DB.WithContext(ctx).
		Model(&models.FeatureUsageLog{}).
		Select("feature, COUNT(*) as count").
		Where("director_id = ? AND timestamp >= ?", directorID, since).
		Group("feature").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var feature string
		var count int64
		if err := rows.Scan(&feature, &count); err != nil {
			return nil, err
		}
		counts[feature] = count
	}

	return counts, nil
}

// Deletes logs older than the specified time
func (r *UsageLogRepository) DeleteOldLogs(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("timestamp < ?", before).
		Delete(&models.FeatureUsageLog{})

	return result.RowsAffected, result.Error
}
