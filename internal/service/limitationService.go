package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/quota"
	"github.com/hakwonplus/academy-api/internal/repository"
)

// LimitationService is the administrative surface over quota policies:
// reading a director's toggles, limits and current usage, and editing
// them.
type LimitationService struct {
	repo      *repository.LimitationRepository
	usageRepo *repository.UsageLogRepository
}

func NewLimitationService(repo *repository.LimitationRepository, usageRepo *repository.UsageLogRepository) *LimitationService {
	return &LimitationService{repo: repo, usageRepo: usageRepo}
}

// Get returns the director's policy, creating the default record on
// first access.
func (s *LimitationService) Get(ctx context.Context, directorID, academyID uuid.UUID) (*models.DirectorLimitation, error) {
	rec, err := s.repo.LoadOrCreate(ctx, directorID, academyID)
	if err != nil {
		return nil, err
	}

	// Display current-window counters, not last-window leftovers.
	if daily, monthly := quota.Normalize(rec, time.Now()); daily || monthly {
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// GetByAcademy resolves the policy through the academy instead of the
// director. Returns (nil, nil) when the academy has no policy yet.
func (s *LimitationService) GetByAcademy(ctx context.Context, academyID uuid.UUID) (*models.DirectorLimitation, error) {
	return s.repo.FindByAcademy(ctx, academyID)
}

// Update applies an administrative edit of toggles and limits. Usage
// counters and reset markers are owned by the engine and preserved.
func (s *LimitationService) Update(ctx context.Context, edit *models.DirectorLimitation) (*models.DirectorLimitation, error) {
	if edit.DirectorID == uuid.Nil {
		return nil, errors.New("director_id is required")
	}

	current, err := s.repo.LoadOrCreate(ctx, edit.DirectorID, edit.AcademyID)
	if err != nil {
		return nil, err
	}

	current.MaxStudents = edit.MaxStudents
	for _, f := range quota.Features() {
		cur := quota.QuotaOf(current, f)
		next := quota.QuotaOf(edit, f)
		cur.Enabled = next.Enabled
		cur.DailyLimit = next.DailyLimit
		cur.MonthlyLimit = next.MonthlyLimit
	}

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// Usage returns a director's per-feature call counts since the given
// time, for the admin dashboard.
func (s *LimitationService) Usage(ctx context.Context, directorID uuid.UUID, since time.Time) (map[string]int64, error) {
	return s.usageRepo.CountByFeatureSince(ctx, directorID, since)
}
