package aggregate

import (
	"sort"
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// DailySnapshot returns all records for one calendar date, sorted by
// millimeters descending (ties by station name) for display. A date with no
// readings yields an empty slice, as does the zero date ("no selection") —
// it must never match records whose timestamp failed to parse.
func DailySnapshot(records []domain.Record, date time.Time) []domain.Record {
	day := domain.DateOf(date)
	out := make([]domain.Record, 0)
	if day.IsZero() {
		return out
	}
	for _, rec := range records {
		if rec.Date.Equal(day) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Millimeters != out[j].Millimeters {
			return out[i].Millimeters > out[j].Millimeters
		}
		return out[i].Station < out[j].Station
	})
	return out
}
