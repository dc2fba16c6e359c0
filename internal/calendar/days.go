// Package calendar shapes appointment records into month views.
//
// All dates are wall-clock values: two instants fall on the same day when
// they share year, month and day in their own location. Callers convert
// stored instants into the display zone before handing them over.
package calendar

import (
	"cmp"
	"fmt"
	"iter"
	"time"
)

// DayKey identifies one calendar day.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// KeyOf returns the calendar day t falls on, in t's own location.
func KeyOf(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// Date returns midnight of the day in loc.
func (k DayKey) Date(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// Compare orders days chronologically.
func (k DayKey) Compare(o DayKey) int {
	return cmp.Or(
		cmp.Compare(k.Year, o.Year),
		cmp.Compare(k.Month, o.Month),
		cmp.Compare(k.Day, o.Day),
	)
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
}

// DayRange is the contiguous run of days shown for one month: whole weeks
// from the week holding the 1st to the week holding the last day.
type DayRange struct {
	start time.Time
	n     int
}

// VisibleDayRange computes the grid days for ref's month with weeks
// starting on weekStart.
func VisibleDayRange(ref time.Time, weekStart time.Weekday) DayRange {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)

	weekEnd := (weekStart + 6) % 7
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	trail := (int(weekEnd) - int(last.Weekday()) + 7) % 7

	return DayRange{
		start: first.AddDate(0, 0, -lead),
		n:     lead + last.Day() + trail,
	}
}

// All yields each day at midnight, in order. The sequence can be ranged
// over any number of times.
func (r DayRange) All() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for i := 0; i < r.n; i++ {
			if !yield(r.start.AddDate(0, 0, i)) {
				return
			}
		}
	}
}

func (r DayRange) Len() int { return r.n }

func (r DayRange) First() time.Time { return r.start }

func (r DayRange) Last() time.Time { return r.start.AddDate(0, 0, r.n-1) }

// Days collects the range into a slice.
func (r DayRange) Days() []time.Time {
	days := make([]time.Time, 0, r.n)
	for d := range r.All() {
		days = append(days, d)
	}
	return days
}

// Contains reports whether t's calendar day lies inside the range.
func (r DayRange) Contains(t time.Time) bool {
	k := KeyOf(t).Date(r.start.Location())
	return !k.Before(r.start) && !k.After(r.Last())
}

// GroupByDay buckets records by the calendar day of dateOf(record).
// Records keep their relative input order within a bucket.
func GroupByDay[T any](records []T, dateOf func(T) time.Time) map[DayKey][]T {
	groups := make(map[DayKey][]T)
	for _, rec := range records {
		k := KeyOf(dateOf(rec))
		groups[k] = append(groups[k], rec)
	}
	return groups
}
