package calendar

import (
	"slices"
	"strings"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

// Cell is one day of the month grid.
type Cell struct {
	Date             time.Time           `json:"date"`
	InDisplayedMonth bool                `json:"in_displayed_month"`
	IsToday          bool                `json:"is_today"`
	Appointments     []model.Appointment `json:"appointments"`
}

// Warning reports a stored record left out of a projection.
type Warning struct {
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

// Grid is the renderable month view.
type Grid struct {
	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	WeekStart time.Weekday `json:"week_start"`
	Weeks     [][]Cell     `json:"weeks"`
	Warnings  []Warning    `json:"warnings,omitempty"`
}

// Cells returns the grid days in display order.
func (g Grid) Cells() []Cell {
	var cells []Cell
	for _, w := range g.Weeks {
		cells = append(cells, w...)
	}
	return cells
}

// BuildMonthGrid projects appointments onto ref's month. now marks the
// "today" cell. Each day's appointments are ordered by start time.
// Records without a usable date are skipped and reported in Warnings.
// The function does not modify its inputs.
func BuildMonthGrid(ref, now time.Time, appointments []model.Appointment, weekStart time.Weekday) Grid {
	valid, warnings := usable(appointments)
	buckets := GroupByDay(valid, func(a model.Appointment) time.Time { return a.Date })
	today := KeyOf(now.In(ref.Location()))

	days := VisibleDayRange(ref, weekStart)
	grid := Grid{
		Year:      ref.Year(),
		Month:     ref.Month(),
		WeekStart: weekStart,
		Weeks:     make([][]Cell, 0, days.Len()/7),
		Warnings:  warnings,
	}

	week := make([]Cell, 0, 7)
	for day := range days.All() {
		key := KeyOf(day)
		bucket := buckets[key]
		if bucket == nil {
			bucket = []model.Appointment{}
		}
		slices.SortStableFunc(bucket, func(a, b model.Appointment) int {
			return strings.Compare(a.StartTime, b.StartTime)
		})

		week = append(week, Cell{
			Date:             day,
			InDisplayedMonth: day.Month() == ref.Month(),
			IsToday:          key == today,
			Appointments:     bucket,
		})
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]Cell, 0, 7)
		}
	}

	return grid
}

// DayAgenda returns the appointments falling on day, ordered by start
// time, plus warnings for records that had to be skipped.
func DayAgenda(day time.Time, appointments []model.Appointment) ([]model.Appointment, []Warning) {
	valid, warnings := usable(appointments)
	bucket := GroupByDay(valid, func(a model.Appointment) time.Time { return a.Date })[KeyOf(day)]
	slices.SortStableFunc(bucket, func(a, b model.Appointment) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	if bucket == nil {
		bucket = []model.Appointment{}
	}
	return bucket, warnings
}

func usable(appointments []model.Appointment) ([]model.Appointment, []Warning) {
	valid := make([]model.Appointment, 0, len(appointments))
	var warnings []Warning
	for _, a := range appointments {
		if a.Date.IsZero() {
			warnings = append(warnings, Warning{RecordID: a.ID, Reason: "missing or unparseable date"})
			continue
		}
		if y := a.Date.Year(); y < 1 || y > 9999 {
			warnings = append(warnings, Warning{RecordID: a.ID, Reason: "date out of range"})
			continue
		}
		valid = append(valid, a)
	}
	return valid, warnings
}
