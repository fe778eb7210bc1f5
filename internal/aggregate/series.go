package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// Bucket is the grouping granularity of a historical series.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week" // calendar week starting Monday
	BucketMonth Bucket = "month"
)

// ParseBucket parses a granularity parameter from the presentation layer.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(strings.ToLower(strings.TrimSpace(s))) {
	case BucketDay, "":
		return BucketDay, nil
	case BucketWeek:
		return BucketWeek, nil
	case BucketMonth:
		return BucketMonth, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// SeriesPoint is one station's accumulated millimeters for one time bucket.
type SeriesPoint struct {
	Station     string    `json:"station"`
	Bucket      time.Time `json:"bucket"`
	Millimeters float64   `json:"mm"`
}

// HistoricalSeries sums millimeters per station per time bucket over an
// inclusive date range, restricted to the given station subset. An empty
// subset or an inverted range yields an empty series. Sorted by station then
// bucket ascending.
func HistoricalSeries(records []domain.Record, stations []string, from, to time.Time, bucket Bucket) []SeriesPoint {
	if len(stations) == 0 {
		return nil
	}
	fromDay, toDay := domain.DateOf(from), domain.DateOf(to)
	if fromDay.After(toDay) {
		return nil
	}

	selected := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		selected[s] = struct{}{}
	}

	type key struct {
		station string
		bucket  time.Time
	}
	sums := make(map[key]float64)
	for _, rec := range records {
		if rec.Date.IsZero() || rec.Date.Before(fromDay) || rec.Date.After(toDay) {
			continue
		}
		if _, ok := selected[rec.Station]; !ok {
			continue
		}
		sums[key{rec.Station, bucketStart(rec.Date, bucket)}] += rec.Millimeters
	}

	points := make([]SeriesPoint, 0, len(sums))
	for k, mm := range sums {
		points = append(points, SeriesPoint{Station: k.station, Bucket: k.bucket, Millimeters: mm})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Station != points[j].Station {
			return points[i].Station < points[j].Station
		}
		return points[i].Bucket.Before(points[j].Bucket)
	})
	return points
}

// bucketStart maps a date to the first day of its bucket.
func bucketStart(date time.Time, bucket Bucket) time.Time {
	switch bucket {
	case BucketWeek:
		// Roll back to Monday; time.Weekday numbers Sunday as 0.
		offset := (int(date.Weekday()) + 6) % 7
		return date.AddDate(0, 0, -offset)
	case BucketMonth:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return date
	}
}
