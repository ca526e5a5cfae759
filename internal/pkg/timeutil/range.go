// internal/pkg/timeutil/range.go
package timeutil

import (
	"time"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

// DateLayout is the calendar date format accepted in query strings
const DateLayout = "2006-01-02"

// Range is a half-open interval [From, To). Either end may be nil.
type Range struct {
	From *time.Time
	To   *time.Time
}

// ParseRange parses start and end calendar dates. The end date is
// inclusive, so To is set to midnight of the following day.
func ParseRange(start, end string) (Range, error) {
	var r Range

	if start != "" {
		from, err := time.ParseInLocation(DateLayout, start, time.Local)
		if err != nil {
			return r, apperror.NewInvalidArgument("start date must be in YYYY-MM-DD format")
		}
		r.From = &from
	}

	if end != "" {
		to, err := time.ParseInLocation(DateLayout, end, time.Local)
		if err != nil {
			return r, apperror.NewInvalidArgument("end date must be in YYYY-MM-DD format")
		}
		to = to.AddDate(0, 0, 1)
		r.To = &to
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return r, apperror.NewInvalidArgument("start date must not be after end date")
	}

	return r, nil
}

// Contains reports whether t falls inside the range
func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth truncates t to the first day of its month
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
