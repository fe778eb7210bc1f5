package aggregate

import (
	"sort"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// MonthlyRow is one station's accumulation per calendar month of a year.
// Months with no reports hold 0, not an absent entry, so the table always
// renders twelve columns.
type MonthlyRow struct {
	Region  string      `json:"region"`
	Station string      `json:"station"`
	Months  [12]float64 `json:"months"` // index 0 = January
	Total   float64     `json:"total"`
}

// MonthlyTotals sums millimeters per station per calendar month within one
// year, with a row total, sorted by region then station.
func MonthlyTotals(records []domain.Record, year int) []MonthlyRow {
	type key struct{ region, station string }
	totals := make(map[key]*MonthlyRow)

	for _, rec := range records {
		if rec.Date.IsZero() || rec.Date.Year() != year {
			continue
		}
		k := key{rec.Region, rec.Station}
		row, ok := totals[k]
		if !ok {
			row = &MonthlyRow{Region: rec.Region, Station: rec.Station}
			totals[k] = row
		}
		row.Months[int(rec.Date.Month())-1] += rec.Millimeters
		row.Total += rec.Millimeters
	}

	rows := make([]MonthlyRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		return rows[i].Station < rows[j].Station
	})
	return rows
}
