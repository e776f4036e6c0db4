package quota

import (
	"strings"
	"time"

	"github.com/hakwonplus/academy-api/internal/models"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Normalize rolls stale daily/monthly windows over in place and reports
// which windows rolled. All four features share one clock: when the
// record's daily reset date is not today every feature's daily counter
// is zeroed in one batch, and likewise for the month.
//
// The function is pure given (rec, now) and idempotent - renormalizing
// an already-current record changes nothing and returns (false, false).
// An unparsable reset marker never equals the current date, so a
// corrupt record is simply treated as stale. Negative counters are
// clamped to zero for the same reason.
func Normalize(rec *models.DirectorLimitation, now time.Time) (daily, monthly bool) {
	today := now.Format(dayLayout)
	if rec.DailyResetDate != today {
		for _, q := range quotas(rec) {
			q.DailyUsed = 0
		}
		rec.DailyResetDate = today
		daily = true
	}

	month := now.Format(monthLayout)
	if !strings.HasPrefix(rec.MonthlyResetDate, month) {
		for _, q := range quotas(rec) {
			q.MonthlyUsed = 0
		}
		rec.MonthlyResetDate = month + "-01"
		monthly = true
	}

	for _, q := range quotas(rec) {
		if q.DailyUsed < 0 {
			q.DailyUsed = 0
			daily = true
		}
		if q.MonthlyUsed < 0 {
			q.MonthlyUsed = 0
			monthly = true
		}
	}

	return daily, monthly
}
