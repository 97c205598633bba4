// Package domain models community crash-map incident reports and the
// statistics derived from them.
//
// # Data Source
//
// Incident records come from a county crash-feed export endpoint, queried
// once per run for a region, start year, and set of severity classes. The
// endpoint returns a single JSON body that carries the record set in two
// parallel encodings:
//
//   - a geometry-bearing feature collection whose per-feature properties hold
//     the crash date, casualty totals, and municipality name, and
//   - a flat-properties structure, re-parsed from the same body, which is the
//     only encoding that reliably carries the incident-characteristic flags.
//
// The exporter's columnar output omits the structured flag codes from the
// geometry path, so every run repairs the split by pairing the two encodings
// positionally. Neither encoding carries a join key; the pairing relies on
// the feed emitting both encodings in the same order, and a length mismatch
// aborts the batch.
//
// # Feed Conventions
//
// Dates:
//
//	DD/MM/YYYY, e.g. "14/02/2022". Any unparseable date fails the whole
//	batch; skipping a record would silently bias weekly totals.
//
// Casualty totals:
//
//	Numeric-as-string columns ("0", "2"). Empty means unreported and is
//	repaired to zero; non-numeric content fails the batch.
//
// Severity classes:
//
//	Single-letter codes classifying the worst reported outcome:
//	K fatal, A suspected serious injury, B suspected minor injury,
//	O property damage only.
//
// Characteristic flags:
//
//	Per-record "Y"/"" columns in the flat encoding marking impairment,
//	speeding, pedestrian involvement, cyclist involvement, and animal
//	involvement.
//
// # Reporting Window
//
// Weekly statistics cover the last completed calendar week before the week
// containing the reference date, never the in-progress week. Year-to-date
// statistics cover the reference date's calendar year up to and including
// the reference date.
package domain
