// Package dataset owns the ingest-and-reconcile lifecycle: building a fresh
// reconciled dataset from the two upstream feeds and memoizing it behind a
// time-bounded cache.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
	"github.com/agrometeo/pluvio-monitor/internal/observability"
)

// Mode selects how much history a dataset covers.
type Mode string

const (
	// ModeRecent covers a trailing window of recent readings, enough for
	// the daily and monthly views.
	ModeRecent Mode = "recent"
	// ModeFull covers the complete submission history.
	ModeFull Mode = "full"
)

// Dataset is one immutable reconciliation result. Within a cache epoch it is
// shared by reference and must not be mutated.
type Dataset struct {
	Records     []domain.Record
	Mode        Mode
	RefreshedAt time.Time
}

// IngestError reports that a dataset could not be built because an upstream
// feed failed to fetch or decode. It lets callers distinguish "no data
// because upstream is down" from "no readings for that date".
type IngestError struct {
	Feed string // "readings" or "metadata"
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s feed: %v", e.Feed, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// Source supplies the two raw feeds.
type Source interface {
	FetchReadings(ctx context.Context, since time.Time) ([]domain.Row, error)
	FetchStations(ctx context.Context) ([]domain.Row, error)
}

// Publisher receives each freshly built dataset, e.g. for archival export.
type Publisher interface {
	Publish(ctx context.Context, ds *Dataset) error
}

// Builder fetches both feeds and runs the reconciliation pipeline.
type Builder struct {
	source     Source
	publisher  Publisher // optional
	logger     *slog.Logger
	metrics    *observability.Metrics
	windowDays int
	clock      clockwork.Clock
}

// NewBuilder creates a Builder. publisher may be nil; windowDays bounds the
// recent-mode fetch.
func NewBuilder(source Source, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, windowDays int, clock clockwork.Clock) *Builder {
	return &Builder{
		source:     source,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		windowDays: windowDays,
		clock:      clock,
	}
}

// Build fetches both feeds concurrently, reconciles them, and publishes the
// result when a publisher is configured. A failure on either feed aborts the
// build with an *IngestError; no partial dataset is ever produced.
func (b *Builder) Build(ctx context.Context, mode Mode) (*Dataset, error) {
	start := b.clock.Now()

	var since time.Time
	if mode == ModeRecent && b.windowDays > 0 {
		since = domain.DateOf(start.AddDate(0, 0, -b.windowDays))
	}

	var readingRows, stationRows []domain.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetchStart := b.clock.Now()
		rows, err := b.source.FetchReadings(gctx, since)
		if err != nil {
			return &IngestError{Feed: "readings", Err: err}
		}
		b.metrics.FetchDuration.WithLabelValues("readings").Observe(b.clock.Now().Sub(fetchStart).Seconds())
		readingRows = rows
		return nil
	})
	g.Go(func() error {
		fetchStart := b.clock.Now()
		rows, err := b.source.FetchStations(gctx)
		if err != nil {
			return &IngestError{Feed: "metadata", Err: err}
		}
		b.metrics.FetchDuration.WithLabelValues("metadata").Observe(b.clock.Now().Sub(fetchStart).Seconds())
		stationRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		b.metrics.Refreshes.WithLabelValues(string(mode), "error").Inc()
		return nil, err
	}

	readings, err := domain.ParseReadings(readingRows)
	if err != nil {
		b.metrics.Refreshes.WithLabelValues(string(mode), "error").Inc()
		return nil, &IngestError{Feed: "readings", Err: err}
	}

	schema := domain.ResolveSchema(domain.Columns(stationRows))
	if schema.Code == "" && len(stationRows) > 0 {
		// Without a code column nothing can join; readings still flow
		// through as unmatched records.
		b.logger.Warn("metadata feed has no recognizable code column")
	}
	stations := domain.BuildStations(stationRows, schema)

	records := domain.Reconcile(readings, stations)

	ds := &Dataset{
		Records:     records,
		Mode:        mode,
		RefreshedAt: b.clock.Now(),
	}

	unmatched := 0
	for _, rec := range records {
		if !rec.Matched {
			unmatched++
		}
	}
	b.metrics.Refreshes.WithLabelValues(string(mode), "success").Inc()
	b.metrics.RecordsReconciled.WithLabelValues(string(mode)).Set(float64(len(records)))
	b.metrics.UnmatchedReadings.WithLabelValues(string(mode)).Set(float64(unmatched))
	b.metrics.RefreshDuration.Observe(b.clock.Now().Sub(start).Seconds())

	b.logger.Info("dataset rebuilt",
		"mode", mode,
		"records", len(records),
		"stations", len(stations),
		"unmatched", unmatched,
	)

	if b.publisher != nil {
		if err := b.publisher.Publish(ctx, ds); err != nil {
			// Export is best-effort; the dataset is still good.
			b.logger.Error("dataset export failed", "error", err)
			b.metrics.ExportErrors.Inc()
		}
	}

	return ds, nil
}
