// Package pipeline runs the chart pipeline end to end: fetch the input
// document, build the date axis, aggregate, and report the outcome.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/aggregation"
	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/idhash"
	"uc-timelapse/internal/normalization"
	"uc-timelapse/internal/observability"
	"uc-timelapse/internal/source"
)

// DefaultCampaignStart is the first date of the chart axis.
var DefaultCampaignStart = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

// Result is the output of one pipeline run.
type Result struct {
	RunID       string
	Chart       *domain.Chart
	Axis        domain.DateAxis
	GeneratedAt time.Time
	Source      domain.SourceKind
	RecordCount int // raw records in the input document
	SeriesCount int // distinct series before top-N selection
	InputHash   string
}

// Runner executes the pipeline against one source.
// A Runner holds no state between runs and is safe for concurrent use.
type Runner struct {
	source        source.Source
	campaignStart time.Time
	clock         func() time.Time
	logger        logrus.FieldLogger
}

// NewRunner creates a runner reading from src with the axis starting at campaignStart.
func NewRunner(src source.Source, campaignStart time.Time) *Runner {
	return &Runner{
		source:        src,
		campaignStart: campaignStart,
		clock:         func() time.Time { return time.Now().UTC() },
		logger:        logrus.StandardLogger(),
	}
}

// WithClock sets a custom clock function for deterministic output.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger logrus.FieldLogger) *Runner {
	r.logger = logger
	return r
}

// CampaignStart returns the configured axis start.
func (r *Runner) CampaignStart() time.Time {
	return r.campaignStart
}

// Run fetches the input and computes the chart for the top N series.
// The axis spans campaignStart through the clock's current date.
func (r *Runner) Run(ctx context.Context, topN int) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.logger.WithFields(logrus.Fields{
		"component": "pipeline",
		"run_id":    runID,
		"top_n":     topN,
		"source":    r.source.Kind().String(),
	})

	records, err := r.fetch(ctx)
	if err != nil {
		observability.RecordPipelineRun("fetch_error", time.Since(start).Seconds())
		log.WithError(err).Warn("fetch failed")
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	now := r.clock()
	axis := normalization.BuildDateAxis(r.campaignStart, now)

	chart, err := aggregation.Aggregate(records, axis, topN)
	if err != nil {
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		log.WithError(err).Warn("aggregation failed")
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	result := &Result{
		RunID:       runID,
		Chart:       chart,
		Axis:        axis,
		GeneratedAt: now,
		Source:      r.source.Kind(),
		RecordCount: len(records),
		SeriesCount: countSeries(records),
		InputHash:   idhash.DocumentHash(records),
	}

	observability.RecordPipelineRun("success", time.Since(start).Seconds())
	observability.RecordPipelineOutput(result.RecordCount, result.SeriesCount, len(chart.ChartData), now.Unix())

	log.WithFields(logrus.Fields{
		"records": result.RecordCount,
		"series":  result.SeriesCount,
		"ranked":  len(chart.UniqueUCs),
		"rows":    len(chart.ChartData),
		"input":   idhash.ShortHash(result.InputHash),
	}).Debug("pipeline run complete")

	return result, nil
}

func (r *Runner) fetch(ctx context.Context) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := r.source.Records(ctx)
	observability.RecordFetch(r.source.Kind().String(), time.Since(start).Seconds(), err)
	return records, err
}

func countSeries(records []domain.RawRecord) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.SeriesName] = struct{}{}
	}
	return len(seen)
}
