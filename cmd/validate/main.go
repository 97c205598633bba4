// Command validate performs integrity checks on a crash feed fixture: both
// response encodings parse and agree, normalization succeeds, the aggregated
// statistics satisfy their invariants, and the composed message fits the
// platform ceiling.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -fixture data/mock/crash_feed_2022.json \
//	  -municipality MADISON \
//	  -ref-date 2022-02-14
package main

import (
	"flag"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/roadwatch/crashweekly/internal/compose"
	"github.com/roadwatch/crashweekly/internal/domain"
	"github.com/roadwatch/crashweekly/internal/feed"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixture := flag.String("fixture", "", "path to feed fixture JSON")
	municipality := flag.String("municipality", "MADISON", "municipality to report on")
	refDate := flag.String("ref-date", "", "reference date (YYYY-MM-DD)")
	textLimit := flag.Int("text-limit", 280, "message length ceiling in runes")
	flag.Parse()

	if *fixture == "" || *refDate == "" {
		flag.Usage()
		os.Exit(1)
	}

	ref, err := time.Parse(time.DateOnly, *refDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: invalid -ref-date: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(*fixture, *municipality, ref, *textLimit))
}

func run(fixturePath, municipality string, ref time.Time, textLimit int) int {
	fmt.Println("=== Crash Feed Fixture Validation ===")
	fmt.Println()

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read fixture: %v\n", err)
		return 1
	}

	raw, parsePhase := validateEncodings(data)
	records, normPhase := validateNormalization(raw, municipality)

	window := domain.NewReportingWindow(ref, time.Sunday)
	stats := domain.Aggregate(records, window, ref)

	phases := []*phase{
		parsePhase,
		normPhase,
		validateAggregation(stats, window, records, ref),
		validateComposition(municipality, window.String(), stats, textLimit),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d in fixture, %d in %s\n", len(raw.Geo), len(records), municipality)
	fmt.Printf("Window:  %s\n", window)
	fmt.Printf("Weekly:  crashes=%d fatalities=%d injuries=%d\n",
		stats.WeeklyCrashes, stats.WeeklyFatalities, stats.WeeklyInjuries)
	fmt.Printf("YTD:     crashes=%d fatalities=%d injuries=%d\n",
		stats.YearToDateCrashes, stats.YearToDateFatalities, stats.YearToDateInjuries)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Encoding Parity ──
// Both encodings must parse from the same body and describe the same record
// sequence.

func validateEncodings(data []byte) (domain.RawFeed, *phase) {
	p := &phase{name: "Phase 1: Encoding Parity (dual parse)"}

	raw, err := feed.ParseBody(data)
	if err != nil {
		p.errorf("parse fixture: %v", err)
		return domain.RawFeed{}, p
	}

	if len(raw.Geo) != len(raw.Flat) {
		p.errorf("encoding lengths differ: geo=%d flat=%d", len(raw.Geo), len(raw.Flat))
	}
	if len(raw.Geo) == 0 {
		p.errorf("fixture contains no records")
	}

	for i := range raw.Flat {
		for _, v := range []string{
			raw.Flat[i].ImpairmentFlag,
			raw.Flat[i].SpeedFlag,
			raw.Flat[i].PedestrianFlag,
			raw.Flat[i].CyclistFlag,
			raw.Flat[i].AnimalFlag,
		} {
			if v != "" && v != "Y" && v != "N" {
				p.errorf("record %d: flag value %q is not Y/N", i, v)
			}
		}
	}
	return raw, p
}

// ── Phase 2: Normalization ──

func validateNormalization(raw domain.RawFeed, municipality string) ([]domain.IncidentRecord, *phase) {
	p := &phase{name: "Phase 2: Normalization (merge encodings)"}

	records, err := domain.MergeEncodings(raw, municipality)
	if err != nil {
		p.errorf("merge encodings: %v", err)
		return nil, p
	}

	for i, r := range records {
		if r.Fatalities < 0 || r.Injuries < 0 {
			p.errorf("record %d: negative casualty count", i)
		}
		if r.Municipality != municipality {
			p.errorf("record %d: municipality %q leaked through the filter", i, r.Municipality)
		}
		if r.Date.IsZero() {
			p.errorf("record %d: zero date", i)
		}
	}
	return records, p
}

// ── Phase 3: Aggregation Invariants ──

func validateAggregation(stats domain.AggregateStats, window domain.ReportingWindow, records []domain.IncidentRecord, ref time.Time) *phase {
	p := &phase{name: "Phase 3: Aggregation (window + YTD invariants)"}

	if days := int(window.End.Sub(window.Start).Hours()/24) + 1; days != 7 {
		p.errorf("window spans %d days, want 7", days)
	}
	if window.Contains(ref) {
		p.errorf("window %s contains the reference date %s", window, ref.Format(time.DateOnly))
	}

	if stats.WeeklyCrashes > stats.YearToDateCrashes {
		p.errorf("weekly crashes %d exceed YTD %d", stats.WeeklyCrashes, stats.YearToDateCrashes)
	}
	if stats.WeeklyFatalities > stats.YearToDateFatalities {
		p.errorf("weekly fatalities %d exceed YTD %d", stats.WeeklyFatalities, stats.YearToDateFatalities)
	}
	if stats.WeeklyInjuries > stats.YearToDateInjuries {
		p.errorf("weekly injuries %d exceed YTD %d", stats.WeeklyInjuries, stats.YearToDateInjuries)
	}

	// Recount independently: the weekly totals must equal a direct sweep over
	// the window.
	var crashes, fatalities, injuries int
	for _, r := range records {
		if !window.Contains(r.Date) {
			continue
		}
		crashes++
		fatalities += r.Fatalities
		injuries += r.Injuries
	}
	if crashes != stats.WeeklyCrashes {
		p.errorf("weekly crash recount %d != aggregate %d", crashes, stats.WeeklyCrashes)
	}
	if fatalities != stats.WeeklyFatalities {
		p.errorf("weekly fatality recount %d != aggregate %d", fatalities, stats.WeeklyFatalities)
	}
	if injuries != stats.WeeklyInjuries {
		p.errorf("weekly injury recount %d != aggregate %d", injuries, stats.WeeklyInjuries)
	}

	return p
}

// ── Phase 4: Composition ──

func validateComposition(municipality, window string, stats domain.AggregateStats, textLimit int) *phase {
	p := &phase{name: "Phase 4: Composition (message ceiling)"}

	text := compose.FormatText(municipality, window, stats)
	if n := utf8.RuneCountInString(text); n > textLimit {
		p.errorf("message is %d runes, ceiling %d: %q", n, textLimit, text)
	}
	return p
}
