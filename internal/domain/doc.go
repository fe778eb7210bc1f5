// Package domain models the rain-gauge network's readings and station
// metadata, and reconciles the two feeds into one record set.
//
// # Data Sources
//
// Both feeds are form submissions from a KoboToolbox-style survey platform.
// Field observers file one readings submission per gauge per day; a separate,
// rarely updated form holds the station roster (coordinates and place names).
// The two forms are maintained independently, which is why reconciliation is
// needed at all: the only shared identity is the gauge code, and even that is
// loosely keyed.
//
// # Gauge Codes
//
// The code column in either feed may contain clean strings ("1042"), JSON
// numbers (1042), or float round-trip artifacts ("1042.0") depending on how
// the form version typed the question. [NormalizeCode] canonicalizes all
// three to the same string before joining. Two codes differing only in
// surrounding whitespace or a trailing ".0" are the same gauge.
//
// # Metadata Schema Drift
//
// The metadata form is re-deployed with renamed columns several times a year
// ("Ubicaci_in", "_Ubicaci_in" and "ubicaci_in" have all carried the location
// at some point). [ResolveSchema] picks columns by case-insensitive substring
// match and never fails; fields with no matching column fall back to the
// documented defaults ("S/D" for department and province, "General" for
// region, the gauge code for the display name).
//
// # Measurements
//
// Depth is reported in millimeters accumulated over the gauge's day window.
// Missing or unparseable depths coerce to 0 mm and negative values clamp to
// 0 — a row is never dropped for a bad measurement. Phenomenon codes are
// free text from a select-one question; [ClassifyPhenomenon] maps them to a
// fixed display vocabulary and passes unknown codes through lowercased.
//
// # Reconciliation
//
// [Reconcile] performs a left outer join of readings onto stations by
// normalized code. Cardinality is preserved exactly: every reading produces
// one record, matched or not. Unmatched records keep their measurement and
// carry default place fields with no coordinates, so downstream views can
// still chart the rain even when the roster lags behind a newly installed
// gauge.
package domain
