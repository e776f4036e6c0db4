package models

import (
	"time"

	"github.com/google/uuid"
)

// Represents one successful gated feature call, kept for usage display
// and auditing. Rows are purged past the configured retention.
type FeatureUsageLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time  `gorm:"index" json:"timestamp"`
	DirectorID uuid.UUID  `gorm:"type:uuid;index" json:"director_id"`
	AcademyID  uuid.UUID  `gorm:"type:uuid;index" json:"academy_id"`
	StudentID  *uuid.UUID `gorm:"type:uuid" json:"student_id,omitempty"`
	Feature    string     `gorm:"index" json:"feature"`
}

func (FeatureUsageLog) TableName() string {
	return "feature_usage_logs"
}
