package calendar

import (
	"strings"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
)

// ParseDate reads a calendar day written as dd/MM/yyyy or yyyy-MM-dd and
// returns midnight UTC of that day. The local form must be exactly ten
// characters, so "1/2/2024" is rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 10 {
		return time.Time{}, false
	}
	layout := model.LayoutISODate
	if strings.Contains(s, "/") {
		layout = model.LayoutLocalDate
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDateTime reads yyyy-MM-ddTHH:mm in loc, or a full RFC 3339 instant.
func ParseDateTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(model.LayoutDateTime, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// At combines a calendar day with an "HH:mm" wall-clock time in loc.
func At(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	hm, err := time.Parse(model.LayoutClock, clock)
	if err != nil || len(clock) != 5 {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, loc), true
}

// Midnight returns 00:00 UTC of the calendar day t falls on in its own
// location.
func Midnight(t time.Time) time.Time {
	return KeyOf(t).Date(time.UTC)
}
