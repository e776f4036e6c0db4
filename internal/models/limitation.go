package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeatureQuota holds the per-feature toggle, ceilings and counters.
// A limit of 0 means unlimited, not a zero allowance.
type FeatureQuota struct {
	Enabled      bool `gorm:"default:false" json:"enabled"`
	DailyLimit   int  `gorm:"default:0" json:"daily_limit"`
	MonthlyLimit int  `gorm:"default:0" json:"monthly_limit"`
	DailyUsed    int  `gorm:"default:0" json:"daily_used"`
	MonthlyUsed  int  `gorm:"default:0" json:"monthly_used"`
}

// DirectorLimitation is the quota policy for one academy director.
// One row per director; the daily/monthly reset markers are shared
// across all four features (they roll over together).
type DirectorLimitation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DirectorID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"director_id"`
	AcademyID  uuid.UUID `gorm:"type:uuid;index;not null" json:"academy_id"`

	MaxStudents int `gorm:"default:0" json:"max_students"`

	HomeworkGrading FeatureQuota `gorm:"embedded;embeddedPrefix:homework_grading_" json:"homework_grading"`
	SimilarProblem  FeatureQuota `gorm:"embedded;embeddedPrefix:similar_problem_" json:"similar_problem"`
	WeakConcept     FeatureQuota `gorm:"embedded;embeddedPrefix:weak_concept_" json:"weak_concept"`
	Competency      FeatureQuota `gorm:"embedded;embeddedPrefix:competency_" json:"competency"`

	// YYYY-MM-DD of the last daily rollover and YYYY-MM-01 of the last
	// monthly rollover. Unparsable values are treated as stale.
	DailyResetDate   string `gorm:"default:''" json:"daily_reset_date"`
	MonthlyResetDate string `gorm:"default:''" json:"monthly_reset_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *DirectorLimitation) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	return nil
}

func (DirectorLimitation) TableName() string {
	return "director_limitations"
}
