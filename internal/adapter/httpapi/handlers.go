package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/aggregate"
	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

const dateLayout = "2006-01-02"

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	dates := aggregate.Dates(ds.Records)
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Stations(ds.Records))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	date, ok := s.parseDateParam(w, r, "date")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.DailySnapshot(ds.Records, date))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	year, ok := parseIntParam(w, r, "year")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.MonthlyTotals(ds.Records, year))
}

func (s *Server) handleRegional(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	date, ok := s.parseDateParam(w, r, "date")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.RegionalSummary(ds.Records, date))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
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
	if points == nil {
		points = []aggregate.SeriesPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleExtremes(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.getDataset(w, r)
	if !ok {
		return
	}
	station := r.URL.Query().Get("station")
	year, ok := parseIntParam(w, r, "year")
	if !ok {
		return
	}
	month, ok := parseIntParam(w, r, "month")
	if !ok {
		return
	}
	if month == 0 {
		// No month selected yet; an empty result, not an error.
		writeJSON(w, http.StatusOK, aggregate.Extremes{})
		return
	}
	if month < 1 || month > 12 {
		writeBadRequest(w, "month must be between 1 and 12")
		return
	}
	ext := aggregate.MonthExtremes(ds.Records, station, year, time.Month(month))
	writeJSON(w, http.StatusOK, ext)
}

// handleRefresh backs the manual "reload full history" switch: it drops every
// cached dataset and warms the requested mode so the next view is instant.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.provider.Invalidate()
	if _, ok := s.getDataset(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// parseDateParam reads a YYYY-MM-DD query parameter. Absent means "no
// selection" and parses as the zero date, which every aggregate answers with
// an empty result rather than an error.
func (s *Server) parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		writeBadRequest(w, name+" must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeBadRequest(w, name+" must be an integer")
		return 0, false
	}
	return n, true
}

type seriesParams struct {
	stations []string
	from, to time.Time
	bucket   aggregate.Bucket
}

func (s *Server) parseSeriesParams(w http.ResponseWriter, r *http.Request) (seriesParams, bool) {
	var p seriesParams
	if raw := r.URL.Query().Get("stations"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				p.stations = append(p.stations, name)
			}
		}
	}
	var ok bool
	if p.from, ok = s.parseDateParam(w, r, "from"); !ok {
		return p, false
	}
	if p.to, ok = s.parseDateParam(w, r, "to"); !ok {
		return p, false
	}
	bucket, err := aggregate.ParseBucket(r.URL.Query().Get("bucket"))
	if err != nil {
		writeBadRequest(w, "bucket must be one of day, week, month")
		return p, false
	}
	p.bucket = bucket
	return p, true
}

// seriesRangeOrDefault fills an open-ended range from the dataset's own
// bounds so an open-ended query covers the full observed span.
func seriesRangeOrDefault(records []domain.Record, from, to time.Time) (time.Time, time.Time) {
	if !from.IsZero() && !to.IsZero() {
		return from, to
	}
	dates := aggregate.Dates(records)
	if len(dates) == 0 {
		return from, to
	}
	if from.IsZero() {
		from = dates[len(dates)-1]
	}
	if to.IsZero() {
		to = dates[0]
	}
	return from, to
}
