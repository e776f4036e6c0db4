package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/repository"
	"github.com/hakwonplus/academy-api/internal/storage"
)

// ErrTenantNotFound means the consumer maps to no director: either the
// student belongs to no academy or the academy has no director account.
// Callers treat this as "no quota policy applies" - enforcement is
// opt-in per tenant, so an unresolved tenant is never a denial.
var ErrTenantNotFound = errors.New("no director found for consumer")

// Tenant is the owner of a quota policy: an academy director.
type Tenant struct {
	DirectorID uuid.UUID `json:"director_id"`
	AcademyID  uuid.UUID `json:"academy_id"`
}

// TenantService maps feature consumers (students) to the director whose
// quota their usage is accounted against.
type TenantService struct {
	repo  *repository.UserRepository
	redis *storage.RedisClient
}

func NewTenantService(repo *repository.UserRepository, redis *storage.RedisClient) *TenantService {
	return &TenantService{repo: repo, redis: redis}
}

// Resolve finds the director of the student's academy.
func (s *TenantService) Resolve(ctx context.Context, studentID uuid.UUID) (Tenant, error) {
	// Check cache first
	cacheKey := fmt.Sprintf("tenant:cache:%s", studentID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil && cached != "" {
			if tenant, err := parseTenant(cached); err == nil {
				return tenant, nil
			}
		}
	}

	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		return Tenant{}, err
	}
	if student == nil || student.AcademyID == nil {
		return Tenant{}, ErrTenantNotFound
	}

	return s.ResolveByAcademy(ctx, *student.AcademyID, cacheKey)
}

// ResolveByAcademy finds the academy's director directly, for callers
// that already know the academy.
func (s *TenantService) ResolveByAcademy(ctx context.Context, academyID uuid.UUID, cacheKey string) (Tenant, error) {
	director, err := s.repo.FindDirectorByAcademy(ctx, academyID)
	if err != nil {
		return Tenant{}, err
	}
	if director == nil {
		return Tenant{}, ErrTenantNotFound
	}

	tenant := Tenant{DirectorID: director.ID, AcademyID: academyID}

	if s.redis != nil && cacheKey != "" {
		s.redis.Set(ctx, cacheKey, tenant.DirectorID.String()+"|"+tenant.AcademyID.String(), 5*time.Minute)
	}

	return tenant, nil
}

func parseTenant(cached string) (Tenant, error) {
	for i := 0; i < len(cached); i++ {
		if cached[i] == '|' {
			directorID, err := uuid.Parse(cached[:i])
			if err != nil {
				return Tenant{}, err
			}
			academyID, err := uuid.Parse(cached[i+1:])
			if err != nil {
				return Tenant{}, err
			}
			return Tenant{DirectorID: directorID, AcademyID: academyID}, nil
		}
	}

	return Tenant{}, errors.New("malformed tenant cache entry")
}
