package aggregate

import (
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// Extremes holds the extreme accumulations for one station and month.
// Min considers only rainy days (mm > 0): a day without rain is not a
// meaningful minimum. When no day had rain, Min is 0 with a zero MinDate.
type Extremes struct {
	Max     float64   `json:"max_mm"`
	MaxDate time.Time `json:"max_date"`
	Min     float64   `json:"min_mm"`
	MinDate time.Time `json:"min_date"`
	Count   int       `json:"count"`
}

// MonthExtremes scans one station's records for a given year and month.
// Ties on the maximum are broken by whichever record is seen first.
func MonthExtremes(records []domain.Record, station string, year int, month time.Month) Extremes {
	var ext Extremes
	for _, rec := range records {
		if rec.Station != station || rec.Date.IsZero() {
			continue
		}
		if rec.Date.Year() != year || rec.Date.Month() != month {
			continue
		}
		ext.Count++
		if rec.Millimeters > ext.Max || ext.MaxDate.IsZero() {
			ext.Max = rec.Millimeters
			ext.MaxDate = rec.Date
		}
		if rec.Millimeters > 0 && (ext.MinDate.IsZero() || rec.Millimeters < ext.Min) {
			ext.Min = rec.Millimeters
			ext.MinDate = rec.Date
		}
	}
	return ext
}
