package quota

import (
	"fmt"

	"github.com/hakwonplus/academy-api/internal/models"
)

// Evaluate decides whether one more use of a feature is admissible
// against an already-normalized record. Deny order: feature disabled,
// daily ceiling, monthly ceiling. A limit of 0 never denies on that
// axis.
func Evaluate(rec *models.DirectorLimitation, f Feature) Decision {
	q := QuotaOf(rec, f)
	if q == nil {
		return Unlimited()
	}

	if f.HasToggle() && !q.Enabled {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("%s 기능이 비활성화되어 있습니다. 관리자에게 문의하세요.", f.DisplayName()),
		}
	}

	if q.DailyLimit > 0 && q.DailyUsed >= q.DailyLimit {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("일일 %s 횟수를 초과했습니다. (%d회 제한)", f.Label(), q.DailyLimit),
		}
	}

	if q.MonthlyLimit > 0 && q.MonthlyUsed >= q.MonthlyLimit {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("월간 %s 횟수를 초과했습니다. (%d회 제한)", f.Label(), q.MonthlyLimit),
		}
	}

	remaining := UnlimitedRemaining
	switch {
	case q.DailyLimit > 0 && q.MonthlyLimit > 0:
		remaining = min(q.DailyLimit-q.DailyUsed, q.MonthlyLimit-q.MonthlyUsed)
	case q.DailyLimit > 0:
		remaining = q.DailyLimit - q.DailyUsed
	case q.MonthlyLimit > 0:
		remaining = q.MonthlyLimit - q.MonthlyUsed
	}

	return Decision{Allowed: true, Remaining: remaining}
}
