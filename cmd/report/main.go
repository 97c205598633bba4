// Command report runs one weekly crash report pass: fetch the county feed,
// compute the previous reporting week's statistics for the configured
// municipality, compose the text and image artifact, and publish it.
//
// The reference date defaults to today; pass -date to recompute a past week:
//
//	go run ./cmd/report -date 2022-02-14
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	fileadapter "github.com/roadwatch/crashweekly/internal/adapter/file"
	"github.com/roadwatch/crashweekly/internal/adapter/httpadapter"
	kafkaadapter "github.com/roadwatch/crashweekly/internal/adapter/kafka"
	"github.com/roadwatch/crashweekly/internal/compose"
	"github.com/roadwatch/crashweekly/internal/config"
	"github.com/roadwatch/crashweekly/internal/domain"
	"github.com/roadwatch/crashweekly/internal/feed"
	"github.com/roadwatch/crashweekly/internal/observability"
	"github.com/roadwatch/crashweekly/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may be set by the scheduler.
	_ = godotenv.Load()

	dateFlag := flag.String("date", "", "reference date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	refDate := domain.Now().UTC()
	if *dateFlag != "" {
		parsed, err := time.Parse(time.DateOnly, *dateFlag)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		refDate = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := feed.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout, logger)

	composer, err := compose.New(cfg)
	if err != nil {
		return fmt.Errorf("init composer: %w", err)
	}

	var publisher pipeline.Publisher
	switch cfg.PublishMode {
	case config.PublishModeKafka:
		kp := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = kp
	case config.PublishModeFile:
		publisher = fileadapter.NewPublisher(cfg.OutputDir, logger)
	}

	p := pipeline.New(fetcher, composer, publisher, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health and metrics endpoints are optional; most scheduler setups run
	// this binary headless.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, cfg.Municipality, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	receipt, runErr := p.Run(ctx, refDate)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	logger.Info("report published",
		"receipt_id", receipt.ID,
		"published_at", receipt.PublishedAt.Format(time.RFC3339),
	)
	return nil
}
