// Package aggregate derives the query views every consumer depends on from a
// reconciled record set. All operations are pure functions of
// (records, parameters): no hidden state, no I/O, and degenerate parameters
// (empty selections, inverted ranges, dates with no data) yield empty results
// rather than errors.
package aggregate

import (
	"sort"
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// Dates returns the distinct observation dates in the record set, newest
// first. Zero dates (rows whose timestamp failed to parse) are skipped.
func Dates(records []domain.Record) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		seen[rec.Date] = struct{}{}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// Stations returns the distinct display names in the record set, sorted.
func Stations(records []domain.Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.Station] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
