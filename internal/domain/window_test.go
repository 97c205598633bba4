package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewReportingWindow(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		weekStart time.Weekday
		start     time.Time
		end       time.Time
		display   string
	}{
		{
			// Monday reference, Sunday-start weeks: last completed week is
			// Sun Feb 6 through Sat Feb 12.
			name:      "sunday start mid-week reference",
			ref:       date(2022, time.February, 14),
			weekStart: time.Sunday,
			start:     date(2022, time.February, 6),
			end:       date(2022, time.February, 12),
			display:   "06/02-12/02",
		},
		{
			name:      "monday start same reference",
			ref:       date(2022, time.February, 14),
			weekStart: time.Monday,
			start:     date(2022, time.February, 7),
			end:       date(2022, time.February, 13),
			display:   "07/02-13/02",
		},
		{
			// Reference on the first day of its week still looks back one
			// full completed week.
			name:      "reference on week start",
			ref:       date(2022, time.February, 13),
			weekStart: time.Sunday,
			start:     date(2022, time.February, 6),
			end:       date(2022, time.February, 12),
			display:   "06/02-12/02",
		},
		{
			name:      "reference on last day of week",
			ref:       date(2022, time.February, 19),
			weekStart: time.Sunday,
			start:     date(2022, time.February, 6),
			end:       date(2022, time.February, 12),
			display:   "06/02-12/02",
		},
		{
			name:      "window spans a year boundary",
			ref:       date(2022, time.January, 3),
			weekStart: time.Sunday,
			start:     date(2021, time.December, 26),
			end:       date(2022, time.January, 1),
			display:   "26/12-01/01",
		},
		{
			name:      "time of day is ignored",
			ref:       time.Date(2022, time.February, 14, 23, 59, 59, 0, time.UTC),
			weekStart: time.Sunday,
			start:     date(2022, time.February, 6),
			end:       date(2022, time.February, 12),
			display:   "06/02-12/02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewReportingWindow(tt.ref, tt.weekStart)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
			assert.Equal(t, tt.display, w.String())
		})
	}
}

func TestNewReportingWindow_AlwaysSevenDays(t *testing.T) {
	// Sweep a month of reference dates with both week conventions: the
	// window must span exactly seven days and never reach the reference
	// date's own week.
	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
		for d := 1; d <= 31; d++ {
			ref := date(2022, time.March, d)
			w := NewReportingWindow(ref, weekStart)

			assert.Equal(t, 6*24*time.Hour, w.End.Sub(w.Start),
				"ref=%s weekStart=%s", ref, weekStart)
			assert.False(t, w.Contains(ref),
				"window must not contain the reference date: ref=%s weekStart=%s", ref, weekStart)

			refWeekOffset := (int(ref.Weekday()) - int(weekStart) + 7) % 7
			refWeekStart := ref.AddDate(0, 0, -refWeekOffset)
			assert.True(t, w.End.Before(refWeekStart),
				"window must end before the current week: ref=%s weekStart=%s", ref, weekStart)
		}
	}
}

func TestReportingWindow_Contains(t *testing.T) {
	w := NewReportingWindow(date(2022, time.February, 14), time.Sunday)

	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{"first day", date(2022, time.February, 6), true},
		{"last day", date(2022, time.February, 12), true},
		{"mid window", date(2022, time.February, 9), true},
		{"day before", date(2022, time.February, 5), false},
		{"day after", date(2022, time.February, 13), false},
		{"last day with time of day", time.Date(2022, time.February, 12, 18, 30, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.d))
		})
	}
}
