package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/agrometeo/pluvio-monitor/internal/aggregate"
)

// monthAbbrev are the Spanish month column headers of the annual table.
var monthAbbrev = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// newCSVWriter prepares a semicolon-separated CSV response with a UTF-8 BOM,
// the format the field offices' spreadsheet software expects.
func newCSVWriter(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte{0xEF, 0xBB, 0xBF}) //nolint:errcheck // best-effort download
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return cw
}

func formatMM(mm float64) string {
	return strconv.FormatFloat(mm, 'f', 1, 64)
}

func (s *Server) handleDailyCSV(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	date, ok := s.parseDateParam(w, r, "date")
	if !ok {
		return
	}
	snap := aggregate.DailySnapshot(ds.Records, date)

	cw := newCSVWriter(w, fmt.Sprintf("lluvia_%s.csv", date.Format(dateLayout)))
	defer cw.Flush()

	cw.Write([]string{"estacion", "mm", "fenomeno"}) //nolint:errcheck
	for _, rec := range snap {
		cw.Write([]string{rec.Station, formatMM(rec.Millimeters), rec.Phenomenon}) //nolint:errcheck
	}
}

func (s *Server) handleMonthlyCSV(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	year, ok := parseIntParam(w, r, "year")
	if !ok {
		return
	}
	rows := aggregate.MonthlyTotals(ds.Records, year)

	cw := newCSVWriter(w, fmt.Sprintf("anual_%d.csv", year))
	defer cw.Flush()

	header := append([]string{"region", "estacion"}, monthAbbrev[:]...)
	cw.Write(append(header, "TOTAL")) //nolint:errcheck
	for _, row := range rows {
		fields := []string{row.Region, row.Station}
		for _, mm := range row.Months {
			fields = append(fields, formatMM(mm))
		}
		fields = append(fields, formatMM(row.Total))
		cw.Write(fields) //nolint:errcheck
	}
}

func (s *Server) handleSeriesCSV(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	params, ok := s.parseSeriesParams(w, r)
	if !ok {
		return
	}
	from, to := seriesRangeOrDefault(ds.Records, params.from, params.to)
	points := aggregate.HistoricalSeries(ds.Records, params.stations, from, to, params.bucket)

	cw := newCSVWriter(w, "historico_lluvias.csv")
	defer cw.Flush()

	cw.Write([]string{"fecha", "estacion", "mm"}) //nolint:errcheck
	for _, p := range points {
		cw.Write([]string{p.Bucket.Format(dateLayout), p.Station, formatMM(p.Millimeters)}) //nolint:errcheck
	}
}
