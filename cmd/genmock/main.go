// Command genmock generates a deterministic crash feed fixture carrying both
// response encodings in one GeoJSON document. It runs the generated document
// back through the actual feed parser and normalizer so the printed expected
// statistics match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -year 2022 -county DANE -municipality MADISON \
//	  -count 200 -seed 1 \
//	  -ref-date 2022-02-14 \
//	  -out data/mock/crash_feed_2022.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/roadwatch/crashweekly/internal/domain"
	"github.com/roadwatch/crashweekly/internal/feed"
)

// Dane County bounding box, roughly.
const (
	minLon, maxLon = -89.85, -89.00
	minLat, maxLat = 42.85, 43.30
)

var municipalities = []string{"MADISON", "MIDDLETON", "SUN PRAIRIE", "FITCHBURG", "VERONA"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	year := flag.Int("year", 2022, "crash year to generate")
	county := flag.String("county", "DANE", "county name stamped on the fixture")
	municipality := flag.String("municipality", "MADISON", "municipality used for the expected statistics")
	count := flag.Int("count", 200, "number of crash records")
	seed := flag.Int64("seed", 1, "random seed")
	refDate := flag.String("ref-date", "", "reference date (YYYY-MM-DD) for the expected statistics")
	out := flag.String("out", "", "output path for the fixture JSON")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	fc := generate(rand.New(rand.NewSource(*seed)), *year, *count)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	log.Printf("wrote fixture: %s (%d records, county=%s)", *out, *count, *county)

	if *refDate != "" {
		ref, err := time.Parse(time.DateOnly, *refDate)
		if err != nil {
			return fmt.Errorf("invalid -ref-date: %w", err)
		}
		if err := printExpected(data, *municipality, ref); err != nil {
			return fmt.Errorf("compute expected stats: %w", err)
		}
	}
	return nil
}

// generate builds a feature collection whose properties carry both the
// geometry-keyed fields and the flat flag fields, the way the county feed
// serves them.
func generate(rng *rand.Rand, year, count int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := 365
	if start.AddDate(1, 0, 0).Sub(start).Hours() > 365*24 {
		days = 366
	}

	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, rng.Intn(days))
		lon := minLon + rng.Float64()*(maxLon-minLon)
		lat := minLat + rng.Float64()*(maxLat-minLat)

		f := geojson.NewFeature(orb.Point{lon, lat})
		f.Properties = geojson.Properties{
			"date":      date.Format("02/01/2006"),
			"totfatl":   fmt.Sprintf("%d", weighted(rng, []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 2})),
			"totinj":    fmt.Sprintf("%d", weighted(rng, []int{0, 0, 0, 1, 1, 1, 2, 2, 3, 4})),
			"muniname":  municipalities[rng.Intn(len(municipalities))],
			"alcflag":   yesNo(rng, 0.15),
			"speedflag": yesNo(rng, 0.25),
			"pedflag":   yesNo(rng, 0.05),
			"bikeflag":  yesNo(rng, 0.05),
			"deerflag":  yesNo(rng, 0.10),
		}
		fc.Append(f)
	}
	return fc
}

func weighted(rng *rand.Rand, choices []int) int {
	return choices[rng.Intn(len(choices))]
}

func yesNo(rng *rand.Rand, p float64) string {
	if rng.Float64() < p {
		return "Y"
	}
	return "N"
}

// printExpected re-parses the fixture through the real feed parser and prints
// the statistics a pipeline run would compute, for pasting into tests.
func printExpected(data []byte, municipality string, ref time.Time) error {
	raw, err := feed.ParseBody(data)
	if err != nil {
		return err
	}
	records, err := domain.MergeEncodings(raw, municipality)
	if err != nil {
		return err
	}

	window := domain.NewReportingWindow(ref, time.Sunday)
	stats := domain.Aggregate(records, window, ref)

	fmt.Println("\n=== Expected stats for test assertions ===")
	fmt.Printf("Municipality: %s\n", municipality)
	fmt.Printf("Window: %s\n", window)
	fmt.Printf("Weekly: crashes=%d fatalities=%d injuries=%d\n",
		stats.WeeklyCrashes, stats.WeeklyFatalities, stats.WeeklyInjuries)
	fmt.Printf("YTD:    crashes=%d fatalities=%d injuries=%d\n",
		stats.YearToDateCrashes, stats.YearToDateFatalities, stats.YearToDateInjuries)
	return nil
}
