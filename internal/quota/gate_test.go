package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDisabledFeature(t *testing.T) {
	rec := testRecord()
	rec.SimilarProblem.Enabled = false
	rec.SimilarProblem.DailyLimit = 10

	d := Evaluate(rec, FeatureSimilarProblem)

	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "비활성화")
	assert.Contains(t, d.Reason, "유사문제 출제")
}

func TestEvaluateDisabledOverridesLimits(t *testing.T) {
	// Disabled denies even with quota to spare.
	rec := testRecord()
	rec.Competency.Enabled = false
	rec.Competency.DailyLimit = 10
	rec.Competency.DailyUsed = 1

	d := Evaluate(rec, FeatureCompetency)

	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "비활성화")
}

func TestEvaluateHomeworkGradingHasNoToggle(t *testing.T) {
	rec := testRecord()
	rec.HomeworkGrading.Enabled = false

	d := Evaluate(rec, FeatureHomeworkGrading)

	assert.True(t, d.Allowed)
}

func TestEvaluateDailyLimitReached(t *testing.T) {
	rec := testRecord()
	rec.SimilarProblem.Enabled = true
	rec.SimilarProblem.DailyLimit = 3
	rec.SimilarProblem.DailyUsed = 3

	d := Evaluate(rec, FeatureSimilarProblem)

	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "일일")
	assert.Contains(t, d.Reason, "3회 제한")
	assert.Equal(t, 0, d.Remaining)
}

func TestEvaluateMonthlyLimitReached(t *testing.T) {
	rec := testRecord()
	rec.WeakConcept.Enabled = true
	rec.WeakConcept.MonthlyLimit = 100
	rec.WeakConcept.MonthlyUsed = 100

	d := Evaluate(rec, FeatureWeakConcept)

	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "월간")
	assert.Contains(t, d.Reason, "100회 제한")
	assert.Equal(t, 0, d.Remaining)
}

func TestEvaluateZeroLimitNeverDenies(t *testing.T) {
	// 0 encodes unlimited, not a zero allowance.
	rec := testRecord()
	rec.Competency.Enabled = true
	rec.Competency.DailyLimit = 0
	rec.Competency.DailyUsed = 99999
	rec.Competency.MonthlyLimit = 0
	rec.Competency.MonthlyUsed = 99999

	d := Evaluate(rec, FeatureCompetency)

	require.True(t, d.Allowed)
	assert.Equal(t, UnlimitedRemaining, d.Remaining)
}

func TestEvaluateRemaining(t *testing.T) {
	tests := []struct {
		name         string
		dailyLimit   int
		dailyUsed    int
		monthlyLimit int
		monthlyUsed  int
		want         int
	}{
		{"daily only", 10, 4, 0, 0, 6},
		{"monthly only", 0, 0, 50, 20, 30},
		{"both, daily tighter", 5, 3, 100, 10, 2},
		{"both, monthly tighter", 20, 0, 30, 25, 5},
		{"neither", 0, 0, 0, 0, UnlimitedRemaining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord()
			rec.SimilarProblem.Enabled = true
			rec.SimilarProblem.DailyLimit = tt.dailyLimit
			rec.SimilarProblem.DailyUsed = tt.dailyUsed
			rec.SimilarProblem.MonthlyLimit = tt.monthlyLimit
			rec.SimilarProblem.MonthlyUsed = tt.monthlyUsed

			d := Evaluate(rec, FeatureSimilarProblem)

			require.True(t, d.Allowed)
			assert.Equal(t, tt.want, d.Remaining)
		})
	}
}

func TestEvaluateDenyOrder(t *testing.T) {
	// Daily is checked before monthly.
	rec := testRecord()
	rec.SimilarProblem.Enabled = true
	rec.SimilarProblem.DailyLimit = 3
	rec.SimilarProblem.DailyUsed = 3
	rec.SimilarProblem.MonthlyLimit = 10
	rec.SimilarProblem.MonthlyUsed = 10

	d := Evaluate(rec, FeatureSimilarProblem)

	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "일일")
}

func TestDefaultRecord(t *testing.T) {
	rec := DefaultRecord(testRecord().DirectorID, testRecord().AcademyID)

	assert.False(t, rec.SimilarProblem.Enabled)
	assert.True(t, rec.WeakConcept.Enabled)
	assert.True(t, rec.Competency.Enabled)
	assert.Equal(t, 0, rec.MaxStudents)

	for _, f := range Features() {
		q := QuotaOf(rec, f)
		assert.Equal(t, 0, q.DailyLimit)
		assert.Equal(t, 0, q.MonthlyLimit)
		assert.Equal(t, 0, q.DailyUsed)
		assert.Equal(t, 0, q.MonthlyUsed)
	}
}
