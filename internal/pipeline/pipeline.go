// Package pipeline orchestrates one weekly report run:
// fetch, normalize, aggregate, compose, publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roadwatch/crashweekly/internal/config"
	"github.com/roadwatch/crashweekly/internal/domain"
	"github.com/roadwatch/crashweekly/internal/observability"
)

// FeedFetcher retrieves the raw record set for a query scope.
type FeedFetcher interface {
	Fetch(ctx context.Context, q domain.FeedQuery) (domain.RawFeed, error)
}

// ArtifactComposer renders statistics into the publishable artifact.
type ArtifactComposer interface {
	Compose(stats domain.AggregateStats, window string) (domain.ComposedArtifact, error)
}

// Publisher hands the composed artifact to the external publishing service.
// The pipeline treats it as opaque: no retries, and its errors surface
// upward unchanged.
type Publisher interface {
	Publish(ctx context.Context, artifact domain.ComposedArtifact) (domain.PublishReceipt, error)
}

// Pipeline runs the weekly crash report. It is stateless between runs: every
// run re-fetches the feed and re-derives all intermediate entities in a
// single call-local scope. Overlapping scheduler triggers are not
// coordinated here; the scheduler must guarantee at-most-one concurrent run.
type Pipeline struct {
	fetcher  FeedFetcher
	composer ArtifactComposer
	pub      Publisher

	query        domain.FeedQuery
	municipality string
	weekStart    time.Weekday

	logger  *slog.Logger
	metrics *observability.Metrics
	ran     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(fetcher FeedFetcher, composer ArtifactComposer, pub Publisher, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		composer: composer,
		pub:      pub,
		query: domain.FeedQuery{
			County:     cfg.County,
			StartYear:  cfg.StartYear,
			Severities: cfg.Severities,
		},
		municipality: cfg.Municipality,
		weekStart:    cfg.WeekStart,
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed
// successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ran.Load() {
		return errors.New("no successful run yet")
	}
	return nil
}

// Run executes one complete pipeline pass for the given reference date and
// returns the publish receipt. Every stage fails fast and the error
// propagates unchanged: a partially computed weekly statistic is worse than
// no publication.
func (p *Pipeline) Run(ctx context.Context, refDate time.Time) (domain.PublishReceipt, error) {
	start := time.Now()

	receipt, err := p.run(ctx, refDate)
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.PublishReceipt{}, err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.LastSuccessTimestamp.SetToCurrentTime()
	p.ran.Store(true)
	return receipt, nil
}

func (p *Pipeline) run(ctx context.Context, refDate time.Time) (domain.PublishReceipt, error) {
	p.logger.Info("run started",
		"reference_date", refDate.Format(time.DateOnly),
		"county", p.query.County,
		"municipality", p.municipality,
	)

	fetchStart := time.Now()
	feed, err := p.fetcher.Fetch(ctx, p.query)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("fetch feed: %w", err)
	}
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	p.metrics.RecordsFetched.Add(float64(len(feed.Geo)))

	records, err := domain.MergeEncodings(feed, p.municipality)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("normalize records: %w", err)
	}
	p.metrics.RecordsNormalized.Add(float64(len(records)))

	window := domain.NewReportingWindow(refDate, p.weekStart)
	stats := domain.Aggregate(records, window, refDate)
	p.logger.Info("stats computed",
		"window", window.String(),
		"weekly_crashes", stats.WeeklyCrashes,
		"weekly_fatalities", stats.WeeklyFatalities,
		"weekly_injuries", stats.WeeklyInjuries,
		"ytd_crashes", stats.YearToDateCrashes,
	)

	artifact, err := p.composer.Compose(stats, window.String())
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("compose artifact: %w", err)
	}

	receipt, err := p.pub.Publish(ctx, artifact)
	if err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("publish artifact: %w", err)
	}

	p.logger.Info("run complete",
		"receipt_id", receipt.ID,
		"published_at", receipt.PublishedAt.Format(time.RFC3339),
	)
	return receipt, nil
}
