package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readingRow(code any, date, mm, phen any) Row {
	return Row{
		"Pluviometros":           code,
		"Fecha_del_dato":         date,
		"Mil_metros_registrados": mm,
		"fenomeno":               phen,
	}
}

func TestParseReadings(t *testing.T) {
	t.Run("typical row", func(t *testing.T) {
		rows := []Row{readingRow("1042.0", "2026-03-14T09:00:00", "12.5", "granizo")}
		readings, err := ParseReadings(rows)

		require.NoError(t, err)
		require.Len(t, readings, 1)
		r := readings[0]
		assert.Equal(t, "1042", r.Code)
		assert.Equal(t, 12.5, r.Millimeters)
		assert.Equal(t, "granizo", r.RawPhenomenon)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), r.Date)
		assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), r.ReportedAt)
	})

	t.Run("bad depth coerces to zero", func(t *testing.T) {
		rows := []Row{readingRow("7", "2026-03-14", "abc", nil)}
		readings, err := ParseReadings(rows)

		require.NoError(t, err)
		assert.Equal(t, 0.0, readings[0].Millimeters)
	})

	t.Run("bad date keeps the row", func(t *testing.T) {
		rows := []Row{readingRow("7", "not-a-date", "3", nil)}
		readings, err := ParseReadings(rows)

		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.True(t, readings[0].Date.IsZero())
	})

	t.Run("no code field anywhere is a schema error", func(t *testing.T) {
		rows := []Row{{"Fecha_del_dato": "2026-03-14"}, {"Fecha_del_dato": "2026-03-15"}}
		_, err := ParseReadings(rows)
		assert.ErrorIs(t, err, ErrReadingsSchema)
	})

	t.Run("empty feed is not an error", func(t *testing.T) {
		readings, err := ParseReadings(nil)
		require.NoError(t, err)
		assert.Empty(t, readings)
	})
}

func TestBuildStations(t *testing.T) {
	schema := Schema{
		Code:       "Codigo_txt_del_pluviometro",
		Location:   "Ubicaci_in",
		Name:       "Nombre_del_Pluviometro",
		Department: "Departamento",
		Province:   "Provincia",
		Region:     "Region_INTA",
	}

	t.Run("full row", func(t *testing.T) {
		rows := []Row{{
			"Codigo_txt_del_pluviometro": "1042.0",
			"Ubicaci_in":                 "-24.5 -65.3",
			"Nombre_del_Pluviometro":     "La Merced",
			"Departamento":               "Cerrillos",
			"Provincia":                  "Salta",
			"Region_INTA":                "Valle de Lerma",
		}}
		stations := BuildStations(rows, schema)

		require.Contains(t, stations, "1042")
		st := stations["1042"]
		assert.Equal(t, "La Merced", st.Name)
		require.NotNil(t, st.Coordinates)
		assert.Equal(t, Coordinates{Lat: -24.5, Lon: -65.3}, *st.Coordinates)
		assert.Equal(t, "Cerrillos", st.Department)
		assert.Equal(t, "Salta", st.Province)
		assert.Equal(t, "Valle de Lerma", st.Region)
	})

	t.Run("defaults for missing fields", func(t *testing.T) {
		rows := []Row{{"Codigo_txt_del_pluviometro": "7"}}
		stations := BuildStations(rows, schema)

		st := stations["7"]
		assert.Equal(t, "7", st.Name, "name falls back to code")
		assert.Nil(t, st.Coordinates)
		assert.Equal(t, DefaultPlace, st.Department)
		assert.Equal(t, DefaultPlace, st.Province)
		assert.Equal(t, DefaultRegion, st.Region)
	})

	t.Run("unresolved code column yields no stations", func(t *testing.T) {
		rows := []Row{{"whatever": "x"}}
		stations := BuildStations(rows, Schema{})
		assert.Empty(t, stations)
	})
}

func TestReconcile(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	stations := map[string]Station{
		"1042": {
			Code:        "1042",
			Name:        "La Merced",
			Coordinates: &Coordinates{Lat: -24.5, Lon: -65.3},
			Department:  "Cerrillos",
			Province:    "Salta",
			Region:      "Valle de Lerma",
		},
	}

	t.Run("matched reading", func(t *testing.T) {
		readings := []Reading{{Code: "1042", Date: date, Millimeters: 55, RawPhenomenon: "granizo"}}
		records := Reconcile(readings, stations)

		require.Len(t, records, 1)
		rec := records[0]
		assert.True(t, rec.Matched)
		assert.Equal(t, "La Merced", rec.Station)
		assert.Equal(t, PhenomenonHail, rec.Phenomenon)
		assert.Equal(t, IntensityHeavy, rec.Intensity)
		assert.Equal(t, "Valle de Lerma", rec.Region)
		require.NotNil(t, rec.Coordinates)
	})

	t.Run("unmatched reading is preserved", func(t *testing.T) {
		readings := []Reading{{Code: "9999", Date: date, Millimeters: 12}}
		records := Reconcile(readings, stations)

		require.Len(t, records, 1)
		rec := records[0]
		assert.False(t, rec.Matched)
		assert.Equal(t, "9999", rec.Station, "display name falls back to code")
		assert.Nil(t, rec.Coordinates)
		assert.Equal(t, DefaultPlace, rec.Department)
		assert.Equal(t, DefaultRegion, rec.Region)
		assert.Equal(t, 12.0, rec.Millimeters)
	})

	t.Run("cardinality is preserved", func(t *testing.T) {
		readings := make([]Reading, 0, 10)
		for i := 0; i < 10; i++ {
			code := "1042"
			if i >= 7 {
				code = fmt.Sprintf("ghost-%d", i)
			}
			readings = append(readings, Reading{Code: code, Date: date})
		}
		records := Reconcile(readings, stations)

		require.Len(t, records, 10)
		unmatched := 0
		for _, rec := range records {
			if !rec.Matched {
				unmatched++
			}
		}
		assert.Equal(t, 3, unmatched)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Reconcile(nil, stations))
		assert.Empty(t, Reconcile(nil, nil))
	})
}

func TestIntensityTier(t *testing.T) {
	assert.Equal(t, IntensityLight, IntensityTier(0))
	assert.Equal(t, IntensityLight, IntensityTier(20))
	assert.Equal(t, IntensityModerate, IntensityTier(20.5))
	assert.Equal(t, IntensityModerate, IntensityTier(50))
	assert.Equal(t, IntensityHeavy, IntensityTier(50.1))
}
