package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/repository"
)

// ErrStudentLimitReached carries the user-facing denial when an academy
// is at its configured max_students.
type ErrStudentLimitReached struct {
	Max int
}

func (e *ErrStudentLimitReached) Error() string {
	return fmt.Sprintf("학생 수 제한을 초과했습니다. (최대 %d명)", e.Max)
}

type StudentService struct {
	users       *repository.UserRepository
	limitations *repository.LimitationRepository
}

func NewStudentService(users *repository.UserRepository, limitations *repository.LimitationRepository) *StudentService {
	return &StudentService{users: users, limitations: limitations}
}

// Create registers a new student, gated by the academy's max-students
// policy. No policy record or max_students of 0 means no cap.
func (s *StudentService) Create(ctx context.Context, academyID uuid.UUID, email, password, name, grade, phone, parentPhone string) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	if err := s.checkStudentCap(ctx, academyID); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         models.RoleStudent,
		AcademyID:    &academyID,
		Grade:        grade,
		Phone:        phone,
		ParentPhone:  parentPhone,
	}

	if err := s.users.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return student, nil
}

func (s *StudentService) List(ctx context.Context, academyID uuid.UUID) ([]models.User, error) {
	return s.users.ListStudentsByAcademy(ctx, academyID)
}

func (s *StudentService) checkStudentCap(ctx context.Context, academyID uuid.UUID) error {
	rec, err := s.limitations.FindByAcademy(ctx, academyID)
	if err != nil {
		return err
	}
	if rec == nil || rec.MaxStudents == 0 {
		return nil
	}

	count, err := s.users.CountStudents(ctx, academyID)
	if err != nil {
		return err
	}
	if count >= int64(rec.MaxStudents) {
		return &ErrStudentLimitReached{Max: rec.MaxStudents}
	}

	return nil
}
