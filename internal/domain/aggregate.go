package domain

import "time"

// Aggregate folds normalized records into weekly and year-to-date sums.
// Weekly figures cover the window inclusive of both ends; year-to-date
// figures cover the reference date's calendar year up to and including the
// reference date. A crash with zero fatalities and zero injuries still
// counts toward the crash totals, and an empty record set yields all-zero
// stats, which is a valid output.
func Aggregate(records []IncidentRecord, window ReportingWindow, ref time.Time) AggregateStats {
	refDay := truncateToDay(ref)

	var stats AggregateStats
	for _, r := range records {
		day := truncateToDay(r.Date)

		if window.Contains(day) {
			stats.WeeklyCrashes++
			stats.WeeklyFatalities += r.Fatalities
			stats.WeeklyInjuries += r.Injuries
		}

		if day.Year() == refDay.Year() && !day.After(refDay) {
			stats.YearToDateCrashes++
			stats.YearToDateFatalities += r.Fatalities
			stats.YearToDateInjuries += r.Injuries
		}
	}
	return stats
}
