package quota

import (
	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
)

// Feature identifies one of the gated AI capabilities. The value doubles
// as the column prefix of its counters in director_limitations.
type Feature string

const (
	FeatureHomeworkGrading Feature = "homework_grading"
	FeatureSimilarProblem  Feature = "similar_problem"
	FeatureWeakConcept     Feature = "weak_concept"
	FeatureCompetency      Feature = "competency"
)

func Features() []Feature {
	return []Feature{
		FeatureHomeworkGrading,
		FeatureSimilarProblem,
		FeatureWeakConcept,
		FeatureCompetency,
	}
}

func (f Feature) Valid() bool {
	switch f {
	case FeatureHomeworkGrading, FeatureSimilarProblem, FeatureWeakConcept, FeatureCompetency:
		return true
	}

	return false
}

// Homework grading has no enable toggle - it is always on.
func (f Feature) HasToggle() bool {
	return f != FeatureHomeworkGrading
}

// Full feature name used in "feature disabled" messages.
func (f Feature) DisplayName() string {
	switch f {
	case FeatureHomeworkGrading:
		return "숙제 채점"
	case FeatureSimilarProblem:
		return "유사문제 출제"
	case FeatureWeakConcept:
		return "부족한 개념 분석"
	case FeatureCompetency:
		return "AI 역량 분석"
	}

	return string(f)
}

// Short name used in "limit exceeded" messages.
func (f Feature) Label() string {
	switch f {
	case FeatureHomeworkGrading:
		return "숙제 채점"
	case FeatureSimilarProblem:
		return "유사문제 출제"
	case FeatureWeakConcept:
		return "개념 분석"
	case FeatureCompetency:
		return "역량 분석"
	}

	return string(f)
}

// QuotaOf returns the feature's counters within a record, or nil for an
// unknown feature.
func QuotaOf(rec *models.DirectorLimitation, f Feature) *models.FeatureQuota {
	switch f {
	case FeatureHomeworkGrading:
		return &rec.HomeworkGrading
	case FeatureSimilarProblem:
		return &rec.SimilarProblem
	case FeatureWeakConcept:
		return &rec.WeakConcept
	case FeatureCompetency:
		return &rec.Competency
	}

	return nil
}

func quotas(rec *models.DirectorLimitation) []*models.FeatureQuota {
	return []*models.FeatureQuota{
		&rec.HomeworkGrading,
		&rec.SimilarProblem,
		&rec.WeakConcept,
		&rec.Competency,
	}
}

// DefaultRecord is the policy created on a tenant's first administrative
// access: weak-concept and competency analysis enabled, similar-problem
// generation off, every limit 0 (unlimited). Enforcement stays opt-in -
// a tenant with no record at all is unrestricted.
func DefaultRecord(directorID, academyID uuid.UUID) *models.DirectorLimitation {
	return &models.DirectorLimitation{
		DirectorID: directorID,
		AcademyID:  academyID,
		WeakConcept: models.FeatureQuota{
			Enabled: true,
		},
		Competency: models.FeatureQuota{
			Enabled: true,
		},
	}
}
