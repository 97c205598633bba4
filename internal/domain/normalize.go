package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// feedDateLayout is the feed's day/month/year date format.
const feedDateLayout = "02/01/2006"

// MergeEncodings reconciles the two feed encodings into canonical incident
// records, filtered to the target municipality (case-sensitive exact match;
// non-matching records are dropped, not erred).
//
// The encodings carry the same incidents in the same order but neither holds
// a join key, so flags are merged by positional index. A length mismatch
// makes the positional merge untrustworthy, so the whole batch fails with
// ErrSchemaMismatch rather than guessing at a weaker recovery. If the feed
// ever reorders records between the encodings the merge mismatches silently;
// that risk is inherited from the data source.
func MergeEncodings(feed RawFeed, municipality string) ([]IncidentRecord, error) {
	if len(feed.Geo) != len(feed.Flat) {
		return nil, fmt.Errorf("%w: %d geometry records vs %d flat records",
			ErrSchemaMismatch, len(feed.Geo), len(feed.Flat))
	}

	records := make([]IncidentRecord, 0, len(feed.Geo))
	for i, g := range feed.Geo {
		date, err := parseFeedDate(g.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		fatalities, err := parseCount("fatalities", g.Fatalities)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		injuries, err := parseCount("injuries", g.Injuries)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		if g.Municipality != municipality {
			continue
		}

		records = append(records, IncidentRecord{
			Date:         date,
			Fatalities:   fatalities,
			Injuries:     injuries,
			Municipality: g.Municipality,
			Flags:        feed.Flat[i].Flags(),
		})
	}
	return records, nil
}

func parseFeedDate(s string) (time.Time, error) {
	d, err := time.Parse(feedDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not DD/MM/YYYY", ErrParse, s)
	}
	return d, nil
}

// parseCount coerces a numeric-as-string casualty total. Empty means
// unreported and is repaired to zero; anything else must be a non-negative
// integer.
func parseCount(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not numeric", ErrParse, field, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s %q is negative", ErrParse, field, s)
	}
	return n, nil
}
