package domain

import "errors"

// Readings feed field names. Unlike the metadata feed these have been stable
// across upstream releases, so they are addressed directly.
const (
	readingCodeField  = "Pluviometros"
	readingDateField  = "Fecha_del_dato"
	readingDepthField = "Mil_metros_registrados"
	readingPhenField  = "fenomeno"
)

// ErrReadingsSchema reports a readings feed so broken that no row carries the
// gauge-code join key. Callers treat this as upstream-unavailable rather than
// producing a dataset that cannot be joined.
var ErrReadingsSchema = errors.New("readings feed has no gauge code field")

// ParseReadings converts raw readings rows into Readings. Per-row problems
// coerce to defaults (0 mm, zero date) and never drop the row; only a feed
// with no join key at all is rejected.
func ParseReadings(rows []Row) ([]Reading, error) {
	readings := make([]Reading, 0, len(rows))
	hasCode := false
	for _, row := range rows {
		if _, ok := row[readingCodeField]; ok {
			hasCode = true
		}

		r := Reading{
			Code:          NormalizeCode(row[readingCodeField]),
			Millimeters:   ParseMillimeters(row[readingDepthField]),
			RawPhenomenon: stringify(row[readingPhenField]),
		}
		if t, ok := ParseObservationTime(row[readingDateField]); ok {
			r.ReportedAt = t
			r.Date = DateOf(t)
		}
		readings = append(readings, r)
	}
	if len(rows) > 0 && !hasCode {
		return nil, ErrReadingsSchema
	}
	return readings, nil
}

// BuildStations converts raw metadata rows into a station index keyed by
// normalized code. Rows whose code normalizes to empty cannot be joined and
// are skipped; everything else degrades field by field.
func BuildStations(rows []Row, schema Schema) map[string]Station {
	stations := make(map[string]Station, len(rows))
	for _, row := range rows {
		code := NormalizeCode(row[schema.Code])
		if code == "" {
			continue
		}

		st := Station{
			Code:       code,
			Name:       columnValue(row, schema.Name, code),
			Department: columnValue(row, schema.Department, DefaultPlace),
			Province:   columnValue(row, schema.Province, DefaultPlace),
			Region:     columnValue(row, schema.Region, DefaultRegion),
		}
		if coords, ok := ExtractCoordinates(row[schema.Location]); ok {
			st.Coordinates = &coords
		}
		stations[code] = st
	}
	return stations
}

// columnValue reads a resolved column from a row, falling back to a default
// when the column is unresolved or the cell is empty.
func columnValue(row Row, column, fallback string) string {
	if column == "" {
		return fallback
	}
	if v := stringify(row[column]); v != "" {
		return v
	}
	return fallback
}

// Reconcile left-joins readings onto stations by normalized code. The result
// always has exactly one Record per Reading: a reading with no matching
// station keeps its measurement and gets default place fields and no
// coordinates.
func Reconcile(readings []Reading, stations map[string]Station) []Record {
	records := make([]Record, 0, len(readings))
	for _, r := range readings {
		rec := Record{
			Code:        r.Code,
			Station:     r.Code,
			Date:        r.Date,
			ReportedAt:  r.ReportedAt,
			Millimeters: r.Millimeters,
			Phenomenon:  ClassifyPhenomenon(r.RawPhenomenon),
			Intensity:   IntensityTier(r.Millimeters),
			Department:  DefaultPlace,
			Province:    DefaultPlace,
			Region:      DefaultRegion,
		}
		if st, ok := stations[r.Code]; ok {
			rec.Station = st.Name
			rec.Coordinates = st.Coordinates
			rec.Department = st.Department
			rec.Province = st.Province
			rec.Region = st.Region
			rec.Matched = true
		}
		records = append(records, rec)
	}
	return records
}
