package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/quota"
	"github.com/hakwonplus/academy-api/internal/storage"
)

// LimitationRepository persists one DirectorLimitation per director and
// implements quota.Store.
type LimitationRepository struct {
	db *storage.Postgres
}

var _ quota.Store = (*LimitationRepository)(nil)

func NewLimitationRepository(db *storage.Postgres) *LimitationRepository {
	return &LimitationRepository{db: db}
}

func (r *LimitationRepository) Find(ctx context.Context, directorID uuid.UUID) (*models.DirectorLimitation, error) {
	var rec models.DirectorLimitation
	err := r.db.DB.WithContext(ctx).
		Where("director_id = ?", directorID).
		First(&rec).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &rec, err
}

func (r *LimitationRepository) FindByAcademy(ctx context.Context, academyID uuid.UUID) (*models.DirectorLimitation, error) {
	var rec models.DirectorLimitation
	err := r.db.DB.WithContext(ctx).
		Where("academy_id = ?", academyID).
		First(&rec).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &rec, err
}

// LoadOrCreate returns the director's record, inserting the default
// policy when none exists. Insert-if-absent then select, so two
// concurrent first accesses cannot create duplicate rows.
func (r *LimitationRepository) LoadOrCreate(ctx context.Context, directorID, academyID uuid.UUID) (*models.DirectorLimitation, error) {
	rec := quota.DefaultRecord(directorID, academyID)
	err := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "director_id"}},
			DoNothing: true,
		}).
		Create(rec).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create limitation record: %w", err)
	}

	return r.Find(ctx, directorID)
}

func (r *LimitationRepository) Save(ctx context.Context, rec *models.DirectorLimitation) error {
	return r.db.DB.WithContext(ctx).Save(rec).Error
}

// Upsert writes an administrative edit of toggles and limits, keyed by
// director.
func (r *LimitationRepository) Upsert(ctx context.Context, rec *models.DirectorLimitation) error {
	return r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "director_id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// Mutate locks the director's row FOR UPDATE, applies fn and writes the
// result back, all in one transaction. This is what makes the engine's
// rollover + admission + increment a single atomic step across
// processes.
func (r *LimitationRepository) Mutate(ctx context.Context, directorID uuid.UUID, fn func(rec *models.DirectorLimitation) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.DirectorLimitation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("director_id = ?", directorID).
			First(&rec).Error

		if err == gorm.ErrRecordNotFound {
			return quota.ErrNoRecord
		}
		if err != nil {
			return err
		}

		if err := fn(&rec); err != nil {
			return err
		}

		return tx.Save(&rec).Error
	})
}

func (r *LimitationRepository) Increment(ctx context.Context, directorID uuid.UUID, f quota.Feature) error {
	return r.adjust(ctx, directorID, f, true)
}

func (r *LimitationRepository) Decrement(ctx context.Context, directorID uuid.UUID, f quota.Feature) error {
	return r.adjust(ctx, directorID, f, false)
}

// Single UPDATE on both window counters; no select-then-update, so
// concurrent calls cannot lose increments.
func (r *LimitationRepository) adjust(ctx context.Context, directorID uuid.UUID, f quota.Feature, up bool) error {
	if !f.Valid() {
		return fmt.Errorf("unknown feature %q", f)
	}

	dailyCol := string(f) + "_daily_used"
	monthlyCol := string(f) + "_monthly_used"

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if up {
		updates[dailyCol] = gorm.Expr(dailyCol + " + 1")
		updates[monthlyCol] = gorm.Expr(monthlyCol + " + 1")
	} else {
		updates[dailyCol] = gorm.Expr("GREATEST(" + dailyCol + " - 1, 0)")
		updates[monthlyCol] = gorm.Expr("GREATEST(" + monthlyCol + " - 1, 0)")
	}

	return r.db.DB.WithContext(ctx).
		Model(&models.DirectorLimitation{}).
		Where("director_id = ?", directorID).
		Updates(updates).Error
}
