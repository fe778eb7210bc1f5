package aggregate

import (
	"sort"
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// RegionStats summarizes one region's readings for a single date.
type RegionStats struct {
	Region   string  `json:"region"`
	Mean     float64 `json:"mean_mm"`
	Max      float64 `json:"max_mm"`
	Stations int     `json:"stations"`
}

// RegionalSummary computes mean, max, and reporting-station count per region
// for one date. Regions with no reporting stations that day are excluded:
// there is nothing to summarize and a mean over zero rows is undefined.
// The zero date ("no selection") yields an empty summary rather than
// matching records whose timestamp failed to parse.
func RegionalSummary(records []domain.Record, date time.Time) []RegionStats {
	day := domain.DateOf(date)
	if day.IsZero() {
		return []RegionStats{}
	}
	type acc struct {
		sum, max float64
		count    int
	}
	byRegion := make(map[string]*acc)

	for _, rec := range records {
		if !rec.Date.Equal(day) {
			continue
		}
		a, ok := byRegion[rec.Region]
		if !ok {
			a = &acc{}
			byRegion[rec.Region] = a
		}
		a.sum += rec.Millimeters
		if rec.Millimeters > a.max {
			a.max = rec.Millimeters
		}
		a.count++
	}

	stats := make([]RegionStats, 0, len(byRegion))
	for region, a := range byRegion {
		stats = append(stats, RegionStats{
			Region:   region,
			Mean:     a.sum / float64(a.count),
			Max:      a.max,
			Stations: a.count,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Region < stats[j].Region })
	return stats
}
