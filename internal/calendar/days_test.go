package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVisibleDayRangeFebruary2024(t *testing.T) {
	r := VisibleDayRange(date(2024, time.February, 1), time.Sunday)

	require.Equal(t, 35, r.Len())
	assert.Equal(t, date(2024, time.January, 28), r.First())
	assert.Equal(t, date(2024, time.March, 2), r.Last())
	assert.Equal(t, time.Sunday, r.First().Weekday())
	assert.Equal(t, time.Saturday, r.Last().Weekday())
	assert.True(t, r.Contains(time.Date(2024, time.February, 29, 18, 30, 0, 0, time.UTC)))
	assert.False(t, r.Contains(date(2024, time.March, 3)))
}

func TestVisibleDayRangeExtremes(t *testing.T) {
	// February 2015 starts on a Sunday and has 28 days.
	short := VisibleDayRange(date(2015, time.February, 10), time.Sunday)
	assert.Equal(t, 28, short.Len())
	assert.Equal(t, date(2015, time.February, 1), short.First())

	// May 2021 starts on a Saturday and ends on a Monday.
	long := VisibleDayRange(date(2021, time.May, 31), time.Sunday)
	assert.Equal(t, 42, long.Len())
	assert.Equal(t, date(2021, time.April, 25), long.First())
	assert.Equal(t, date(2021, time.June, 5), long.Last())
}

func TestVisibleDayRangeProperties(t *testing.T) {
	for year := 2019; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			for ws := time.Sunday; ws <= time.Saturday; ws++ {
				ref := date(year, month, 15)
				days := VisibleDayRange(ref, ws).Days()

				require.Zero(t, len(days)%7, "%s/%s", ref.Format("2006-01"), ws)
				require.GreaterOrEqual(t, len(days), 28)
				require.LessOrEqual(t, len(days), 42)
				require.Equal(t, ws, days[0].Weekday())

				seen := make(map[DayKey]int)
				for i, d := range days {
					if i > 0 {
						require.Equal(t, days[i-1].AddDate(0, 0, 1), d, "gap or duplicate at %s", d)
					}
					if d.Month() == month {
						seen[KeyOf(d)]++
					}
				}
				require.Len(t, seen, daysIn(year, month))
				for k, n := range seen {
					require.Equal(t, 1, n, "day %s", k)
				}
			}
		}
	}
}

func TestDayRangeIsRestartable(t *testing.T) {
	r := VisibleDayRange(date(2024, time.June, 1), time.Monday)

	first := r.Days()
	second := r.Days()
	assert.Equal(t, first, second)

	var partial []time.Time
	for d := range r.All() {
		partial = append(partial, d)
		if len(partial) == 3 {
			break
		}
	}
	assert.Equal(t, first[:3], partial)
}

func TestGroupByDayPreservesInputOrder(t *testing.T) {
	type rec struct {
		id string
		at time.Time
	}
	records := []rec{
		{"a", time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)},
		{"b", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)},
		{"c", time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)},
		{"d", time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)},
	}

	groups := GroupByDay(records, func(r rec) time.Time { return r.at })

	require.Len(t, groups, 2)
	var ids []string
	for _, r := range groups[DayKey{2024, time.March, 5}] {
		ids = append(ids, r.id)
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)
	assert.Len(t, groups[DayKey{2024, time.March, 6}], 1)
}

func TestGroupByDayUsesWallClock(t *testing.T) {
	ba := time.FixedZone("ART", -3*60*60)
	late := time.Date(2024, 3, 5, 22, 0, 0, 0, ba) // 01:00 UTC on the 6th

	groups := GroupByDay([]time.Time{late}, func(t time.Time) time.Time { return t })

	assert.Contains(t, groups, DayKey{2024, time.March, 5})
}

func TestDayKeyString(t *testing.T) {
	assert.Equal(t, "2024-02-09", DayKey{2024, time.February, 9}.String())
}
