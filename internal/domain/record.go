package domain

import "time"

// FeedQuery identifies the slice of the crash feed a run operates on.
type FeedQuery struct {
	County     string
	StartYear  int
	Severities []string
}

// SeverityClasses lists the valid severity codes accepted by the feed:
// K fatal, A suspected serious, B suspected minor, O property damage only.
var SeverityClasses = []string{"K", "A", "B", "O"}

// GeoRecord is one incident as delivered by the geometry-bearing encoding.
// Every value arrives as a string, including the casualty totals.
type GeoRecord struct {
	Date         string
	Fatalities   string
	Injuries     string
	Municipality string
}

// FlatRecord is the same incident as it appears in the flat-properties
// encoding, the only encoding that reliably carries the characteristic
// flags. Flag columns hold "Y" when set and are empty otherwise.
type FlatRecord struct {
	ImpairmentFlag string `json:"alcflag"`
	SpeedFlag      string `json:"speedflag"`
	PedestrianFlag string `json:"pedflag"`
	CyclistFlag    string `json:"bikeflag"`
	AnimalFlag     string `json:"deerflag"`
}

// Flag is an incident-characteristic code.
type Flag string

const (
	FlagImpairment Flag = "impairment"
	FlagSpeeding   Flag = "speeding"
	FlagPedestrian Flag = "pedestrian"
	FlagCyclist    Flag = "cyclist"
	FlagAnimal     Flag = "animal"
)

// Flags returns the characteristic flags set on the record, in a fixed order.
func (f FlatRecord) Flags() []Flag {
	var flags []Flag
	if f.ImpairmentFlag == "Y" {
		flags = append(flags, FlagImpairment)
	}
	if f.SpeedFlag == "Y" {
		flags = append(flags, FlagSpeeding)
	}
	if f.PedestrianFlag == "Y" {
		flags = append(flags, FlagPedestrian)
	}
	if f.CyclistFlag == "Y" {
		flags = append(flags, FlagCyclist)
	}
	if f.AnimalFlag == "Y" {
		flags = append(flags, FlagAnimal)
	}
	return flags
}

// RawFeed holds both encodings of the same record set, in feed order.
type RawFeed struct {
	Geo  []GeoRecord
	Flat []FlatRecord
}

// IncidentRecord is the canonical merged record. Created once per raw pair
// during a run and immutable afterwards; nothing is persisted across runs.
type IncidentRecord struct {
	Date         time.Time
	Fatalities   int
	Injuries     int
	Municipality string
	Flags        []Flag
}

// AggregateStats holds the weekly and year-to-date sums for one run.
// A single crash may contribute to both the fatality and injury totals.
type AggregateStats struct {
	WeeklyCrashes        int
	WeeklyFatalities     int
	WeeklyInjuries       int
	YearToDateCrashes    int
	YearToDateFatalities int
	YearToDateInjuries   int
}

// ComposedArtifact is the publishable output of a run.
type ComposedArtifact struct {
	Text  string
	Image []byte // PNG bytes
}

// PublishReceipt identifies a successful hand-off to the publishing service.
type PublishReceipt struct {
	ID          string
	PublishedAt time.Time
}
