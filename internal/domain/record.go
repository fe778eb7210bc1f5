package domain

import "time"

// Row is one submission from either upstream feed, decoded as-is.
// Column names are not contractually stable, so rows stay generic until
// the schema has been resolved.
type Row map[string]any

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Reading is one gauge's reported accumulation for one day, parsed from the
// readings feed. Millimeters is never negative; missing or unparseable depth
// values coerce to 0.
type Reading struct {
	Code          string
	Date          time.Time // calendar date, UTC midnight
	ReportedAt    time.Time // original instant from the feed
	Millimeters   float64
	RawPhenomenon string
}

// Station is one gauge's metadata, parsed from the metadata feed.
// Coordinates is nil when the location field is missing or malformed.
type Station struct {
	Code        string
	Name        string
	Coordinates *Coordinates
	Department  string
	Province    string
	Region      string
}

// Record is a Reading reconciled with its Station. Every Reading produces
// exactly one Record; when no station matches, place fields carry defaults
// and Coordinates is nil.
type Record struct {
	Code        string       `json:"code"`
	Station     string       `json:"station"`
	Date        time.Time    `json:"date"`
	ReportedAt  time.Time    `json:"reported_at"`
	Millimeters float64      `json:"mm"`
	Phenomenon  string       `json:"phenomenon"`
	Intensity   string       `json:"intensity"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Department  string       `json:"department"`
	Province    string       `json:"province"`
	Region      string       `json:"region"`
	Matched     bool         `json:"matched"`
}

// Intensity tiers used by the map view to pick marker colors.
// Thresholds follow the operational convention: above 50 mm a day is
// considered heavy rain, above 20 mm moderate.
const (
	IntensityHeavy    = "intensa"
	IntensityModerate = "moderada"
	IntensityLight    = "leve"
)

// IntensityTier maps a daily accumulation to its display tier.
func IntensityTier(mm float64) string {
	switch {
	case mm > 50:
		return IntensityHeavy
	case mm > 20:
		return IntensityModerate
	default:
		return IntensityLight
	}
}

// Defaults substituted when the metadata feed cannot supply a value.
const (
	DefaultPlace  = "S/D"
	DefaultRegion = "General"
)

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
