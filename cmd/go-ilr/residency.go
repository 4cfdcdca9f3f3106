package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-ilr/internal/config"
	"github.com/tartampluch/go-ilr/internal/engine"
	"github.com/tartampluch/go-ilr/internal/export"
	"github.com/tartampluch/go-ilr/internal/storage"
	"github.com/tartampluch/go-ilr/internal/timeline"
	"github.com/tartampluch/go-ilr/internal/trips"
	"github.com/tartampluch/go-ilr/internal/visa"
)

// residency is everything built from one data directory.
type residency struct {
	data     storage.Data
	trips    *trips.Classifier
	visas    *visa.Classifier
	timeline *timeline.Timeline
	engine   *engine.Engine
}

// loadResidency reads dir and builds the classified timeline and engine.
// The timeline comes from reg so that repeated loads in one process share it.
func loadResidency(dir string, reg *timeline.Registry, clock engine.Clock) (*residency, error) {
	data, err := storage.NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	entry := data.Residency.FirstEntry()

	tc, err := trips.NewClassifier(data.Trips)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildTimeline, err)
	}
	if err := tc.Validate(entry); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildTimeline, err)
	}

	vc, err := visa.NewClassifier(data.Periods, data.Residency.WindowStart(), data.Residency.WindowEnd())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildTimeline, err)
	}
	// Uncovered days are still residence days, so these are reported, not fatal.
	if err := vc.Validate(entry); err != nil {
		slog.Warn(config.MsgVisaWarning,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
	}
	if cov := vc.CoverageReport(); !cov.Complete() {
		slog.Warn(config.MsgCoverageGaps,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyCount, len(cov.UncoveredRanges),
			config.LogKeyDays, cov.UncoveredDays,
			config.LogKeyCoverage, cov.Percentage,
		)
	}

	tl, err := reg.Get(data.Residency, tc, vc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildTimeline, err)
	}
	if err := tl.ValidateNoUnknown(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildTimeline, err)
	}

	start, end := tl.Range()
	slog.Info(config.MsgTimelineBuilt,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyStart, start.Format(config.DateFormatISO),
		config.LogKeyEnd, end.Format(config.DateFormatISO),
		config.LogKeyDays, tl.TotalDays(),
	)

	return &residency{
		data:     data,
		trips:    tc,
		visas:    vc,
		timeline: tl,
		engine:   engine.New(tl, clock),
	}, nil
}

// exportInput assembles the calendar content for stats computed at asOf.
func (r *residency) exportInput(asOf time.Time) (export.Input, error) {
	stats, err := r.engine.GlobalStatistics(asOf)
	if err != nil {
		return export.Input{}, err
	}
	return export.Input{
		Trips:   r.trips.Trips(),
		Periods: r.visas.Periods(),
		Stats:   &stats,
	}, nil
}

// feeds renders the calendar and the text summary served by the feed server.
func (r *residency) feeds(ctx context.Context, gen *export.Generator, asOf time.Time) ([]byte, []byte, error) {
	in, err := r.exportInput(asOf)
	if err != nil {
		return nil, nil, err
	}
	ics, _, err := gen.Generate(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	var sb strings.Builder
	writeStats(&sb, r.engine, *in.Stats)
	return ics, []byte(sb.String()), nil
}
