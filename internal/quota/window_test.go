package quota

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonplus/academy-api/internal/models"
)

func testRecord() *models.DirectorLimitation {
	return &models.DirectorLimitation{
		DirectorID: uuid.New(),
		AcademyID:  uuid.New(),
	}
}

func TestNormalizeDailyRollover(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	rec := testRecord()
	rec.DailyResetDate = "2025-03-14"
	rec.MonthlyResetDate = "2025-03-01"
	rec.SimilarProblem.DailyUsed = 5
	rec.SimilarProblem.MonthlyUsed = 12
	rec.WeakConcept.DailyUsed = 3

	daily, monthly := Normalize(rec, now)

	require.True(t, daily)
	require.False(t, monthly)

	assert.Equal(t, 0, rec.SimilarProblem.DailyUsed)
	assert.Equal(t, 0, rec.WeakConcept.DailyUsed)
	assert.Equal(t, "2025-03-15", rec.DailyResetDate)

	// Monthly counters survive a daily rollover within the same month.
	assert.Equal(t, 12, rec.SimilarProblem.MonthlyUsed)
	assert.Equal(t, "2025-03-01", rec.MonthlyResetDate)
}

func TestNormalizeRollsAllFeaturesTogether(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 30, 0, 0, time.UTC)

	rec := testRecord()
	rec.DailyResetDate = "2025-03-14"
	rec.MonthlyResetDate = "2025-03-01"
	rec.HomeworkGrading.DailyUsed = 1
	rec.SimilarProblem.DailyUsed = 2
	rec.WeakConcept.DailyUsed = 3
	rec.Competency.DailyUsed = 4

	daily, _ := Normalize(rec, now)

	require.True(t, daily)
	assert.Equal(t, 0, rec.HomeworkGrading.DailyUsed)
	assert.Equal(t, 0, rec.SimilarProblem.DailyUsed)
	assert.Equal(t, 0, rec.WeakConcept.DailyUsed)
	assert.Equal(t, 0, rec.Competency.DailyUsed)
}

func TestNormalizeMonthBoundary(t *testing.T) {
	// Normalized late on Jan 31, then again just past midnight on Feb 1:
	// both windows roll together.
	rec := testRecord()
	rec.SimilarProblem.DailyUsed = 2
	rec.SimilarProblem.MonthlyUsed = 40

	jan := time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)
	daily, monthly := Normalize(rec, jan)
	require.True(t, daily)
	require.True(t, monthly)

	rec.SimilarProblem.DailyUsed = 7
	rec.SimilarProblem.MonthlyUsed = 41

	feb := time.Date(2025, 2, 1, 0, 1, 0, 0, time.UTC)
	daily, monthly = Normalize(rec, feb)
	require.True(t, daily)
	require.True(t, monthly)

	assert.Equal(t, 0, rec.SimilarProblem.DailyUsed)
	assert.Equal(t, 0, rec.SimilarProblem.MonthlyUsed)
	assert.Equal(t, "2025-02-01", rec.DailyResetDate)
	assert.Equal(t, "2025-02-01", rec.MonthlyResetDate)
}

func TestNormalizeIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	rec := testRecord()
	rec.DailyResetDate = "2025-03-10"
	rec.MonthlyResetDate = "2025-02-01"
	rec.Competency.DailyUsed = 9
	rec.Competency.MonthlyUsed = 30

	daily, monthly := Normalize(rec, now)
	require.True(t, daily)
	require.True(t, monthly)

	first := *rec

	// Renormalizing in the same window is a no-op.
	daily, monthly = Normalize(rec, now.Add(3*time.Hour))
	assert.False(t, daily)
	assert.False(t, monthly)
	assert.Equal(t, first, *rec)
}

func TestNormalizeCorruptMarkersForceRollover(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	rec := testRecord()
	rec.DailyResetDate = "not-a-date"
	rec.MonthlyResetDate = "garbage"
	rec.WeakConcept.DailyUsed = 4
	rec.WeakConcept.MonthlyUsed = 8

	daily, monthly := Normalize(rec, now)

	require.True(t, daily)
	require.True(t, monthly)
	assert.Equal(t, 0, rec.WeakConcept.DailyUsed)
	assert.Equal(t, 0, rec.WeakConcept.MonthlyUsed)
	assert.Equal(t, "2025-03-15", rec.DailyResetDate)
	assert.Equal(t, "2025-03-01", rec.MonthlyResetDate)
}

func TestNormalizeClampsNegativeCounters(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	rec := testRecord()
	rec.DailyResetDate = "2025-03-15"
	rec.MonthlyResetDate = "2025-03-01"
	rec.SimilarProblem.DailyUsed = -2

	daily, monthly := Normalize(rec, now)

	assert.True(t, daily)
	assert.False(t, monthly)
	assert.Equal(t, 0, rec.SimilarProblem.DailyUsed)
}
