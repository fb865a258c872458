// Package subscription holds the pure date arithmetic behind subscription
// windows.  A window is represented by its end date only, formatted as
// "YYYY-MM-DD"; the boundary is inclusive, so an account expiring today is
// still valid today.
package subscription

import (
	"time"

	"github.com/iliyamo/pdf-chat/internal/model"
)

// DaysRemaining returns the signed number of whole days from today until
// the end date.  Zero means the window ends today (still valid); negative
// values mean the window has already expired.
func DaysRemaining(end string, today time.Time) (int, error) {
	e, err := time.ParseInLocation(model.DateLayout, end, time.UTC)
	if err != nil {
		return 0, err
	}
	t := truncateToDay(today)
	return int(e.Sub(t).Hours() / 24), nil
}

// IsValid reports whether the end date is today or later.  A malformed end
// date counts as invalid.
func IsValid(end string, today time.Time) bool {
	days, err := DaysRemaining(end, today)
	if err != nil {
		return false
	}
	return days >= 0
}

// EndDateAfter returns the end date of a window starting today and lasting
// the given number of days, formatted for storage.
func EndDateAfter(today time.Time, days int) string {
	return truncateToDay(today).AddDate(0, 0, days).Format(model.DateLayout)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
