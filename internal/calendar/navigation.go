package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/practice-api/pkg/clock"
)

// AddMonths moves ref by n calendar months, keeping the day of month
// when the target month has it and clamping to its last day otherwise.
func AddMonths(ref time.Time, n int) time.Time {
	y, m, d := ref.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, ref.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

func NextMonth(ref time.Time) time.Time { return AddMonths(ref, 1) }

func PrevMonth(ref time.Time) time.Time { return AddMonths(ref, -1) }

// Today resets the reference date to the start of the current day.
func Today(c clock.Clock) time.Time {
	now := c.Now()
	return KeyOf(now).Date(now.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseWeekday accepts English weekday names ("monday", "mon") or
// their number, 0 for Sunday through 6 for Saturday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
