package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"29/02/2024", date(2024, 2, 29), true},
		{"2024-02-29", date(2024, 2, 29), true},
		{" 01/03/2024 ", date(2024, 3, 1), true},
		{"30/02/2024", time.Time{}, false},
		{"1/3/2024", time.Time{}, false},
		{"2024-2-1", time.Time{}, false},
		{"", time.Time{}, false},
		{"yesterday!", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDateTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	got, ok := ParseDateTime("2024-05-10T19:30", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 10, 22, 30, 0, 0, time.UTC), got.UTC())

	got, ok = ParseDateTime("2024-05-10T19:30:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, 19, got.UTC().Hour())

	_, ok = ParseDateTime("10/05/2024 19:30", loc)
	assert.False(t, ok)
}

func TestAtCombinesDayAndClock(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	got, ok := At(date(2024, 2, 14), "09:45", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 14, 12, 45, 0, 0, time.UTC), got.UTC())

	_, ok = At(date(2024, 2, 14), "9:45", loc)
	assert.False(t, ok)
}

func TestDayKeyCompare(t *testing.T) {
	a := KeyOf(date(2024, 2, 29))
	assert.Equal(t, 0, a.Compare(KeyOf(date(2024, 2, 29))))
	assert.Equal(t, -1, a.Compare(KeyOf(date(2024, 3, 1))))
	assert.Equal(t, 1, a.Compare(KeyOf(date(2023, 12, 31))))
}
