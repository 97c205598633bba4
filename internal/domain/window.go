package domain

import (
	"fmt"
	"time"
)

// ReportingWindow is the closed seven-day interval covering the last
// completed calendar week before the week of the reference date. Derived
// fresh each run, never persisted.
type ReportingWindow struct {
	Start time.Time // first day of the window, at midnight
	End   time.Time // last day of the window, at midnight (inclusive)
}

// NewReportingWindow derives the reporting window for a reference date and a
// configured first day of the week. The in-progress week is never reported
// because it would be undercounted.
func NewReportingWindow(ref time.Time, weekStart time.Weekday) ReportingWindow {
	day := truncateToDay(ref)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	thisWeek := day.AddDate(0, 0, -offset)
	return ReportingWindow{
		Start: thisWeek.AddDate(0, 0, -7),
		End:   thisWeek.AddDate(0, 0, -1),
	}
}

// Contains reports whether d falls inside the window, inclusive both ends.
func (w ReportingWindow) Contains(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// String renders the window as DD/MM-DD/MM.
func (w ReportingWindow) String() string {
	return fmt.Sprintf("%s-%s", w.Start.Format("02/01"), w.End.Format("02/01"))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
