package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/storage"
)

type UserRepository struct {
	db *storage.Postgres
}

func NewUserRepository(db *storage.Postgres) *UserRepository {
	return &UserRepository{db: db}
}

// Inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.DB.WithContext(ctx).Create(user).Error
}

// Retrieves user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &user, err
}

// Retrieves user by id
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &user, err
}

// Retrieves the academy's director, if one exists
func (r *UserRepository) FindDirectorByAcademy(ctx context.Context, academyID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Where("academy_id = ? AND role = ?", academyID, models.RoleDirector).
		First(&user).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &user, err
}

// Retrieves all students of an academy
func (r *UserRepository) ListStudentsByAcademy(ctx context.Context, academyID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.DB.WithContext(ctx).
		Where("academy_id = ? AND role = ?", academyID, models.RoleStudent).
		Order("created_at DESC").
		Find(&users).Error

	return users, err
}

// Counts the academy's students, for the max-students gate
func (r *UserRepository) CountStudents(ctx context.Context, academyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("academy_id = ? AND role = ?", academyID, models.RoleStudent).
		Count(&count).Error

	return count, err
}
