// Command pluvio-check performs a one-shot connectivity and integrity check
// against the configured feeds: it fetches both, runs the reconciliation
// pipeline, and prints a summary. Useful when rotating the survey token or
// after an upstream form redeployment.
//
// Usage:
//
//	READINGS_FEED_URL=... METADATA_FEED_URL=... SURVEY_API_TOKEN=... \
//	  go run ./cmd/pluvio-check [-full]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agrometeo/pluvio-monitor/internal/adapter/kobo"
	"github.com/agrometeo/pluvio-monitor/internal/aggregate"
	"github.com/agrometeo/pluvio-monitor/internal/config"
	"github.com/agrometeo/pluvio-monitor/internal/dataset"
	"github.com/agrometeo/pluvio-monitor/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	full := flag.Bool("full", false, "fetch the complete history instead of the recent window")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger("warn", "text")
	metrics := observability.NewMetricsForTesting()

	source := kobo.NewClient(cfg.ReadingsFeedURL, cfg.MetadataFeedURL, cfg.APIToken, cfg.FetchTimeout, logger)
	builder := dataset.NewBuilder(source, nil, logger, metrics, cfg.RecentWindowDays, clockwork.NewRealClock())

	mode := dataset.ModeRecent
	if *full {
		mode = dataset.ModeFull
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+10*time.Second)
	defer cancel()

	start := time.Now()
	ds, err := builder.Build(ctx, mode)
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}

	unmatched := 0
	for _, rec := range ds.Records {
		if !rec.Matched {
			unmatched++
		}
	}
	dates := aggregate.Dates(ds.Records)

	fmt.Fprintf(os.Stdout, "mode:       %s\n", ds.Mode)
	fmt.Fprintf(os.Stdout, "fetched in: %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stdout, "records:    %d\n", len(ds.Records))
	fmt.Fprintf(os.Stdout, "stations:   %d\n", len(aggregate.Stations(ds.Records)))
	fmt.Fprintf(os.Stdout, "unmatched:  %d\n", unmatched)
	if len(dates) > 0 {
		fmt.Fprintf(os.Stdout, "date span:  %s .. %s\n",
			dates[len(dates)-1].Format("2006-01-02"), dates[0].Format("2006-01-02"))
	}

	if unmatched > 0 {
		fmt.Fprintf(os.Stdout, "\nwarning: %d readings have no station in the metadata feed\n", unmatched)
	}
	return nil
}
