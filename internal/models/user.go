package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "ADMIN"
	RoleDirector = "DIRECTOR"
	RoleTeacher  = "TEACHER"
	RoleStudent  = "STUDENT"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `gorm:"index;default:'STUDENT'" json:"role"`
	AcademyID    *uuid.UUID `gorm:"type:uuid;index" json:"academy_id,omitempty"`
	Grade        string     `json:"grade,omitempty"`
	ParentPhone  string     `json:"parent_phone,omitempty"`
	Approved     bool       `gorm:"default:true" json:"approved"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	return nil
}

func (User) TableName() string {
	return "users"
}
