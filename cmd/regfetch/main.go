// Command regfetch downloads one JSON document per identifier listed in
// the input file, honoring the contracted request rate and skipping
// identifiers whose cached artifact is still fresh.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmeida/regfetch/internal/config"
	"github.com/jpalmeida/regfetch/pkg/batch"
	"github.com/jpalmeida/regfetch/pkg/fetcher"
	"github.com/jpalmeida/regfetch/pkg/logging"
	"github.com/jpalmeida/regfetch/pkg/ratelimit"
	"github.com/jpalmeida/regfetch/pkg/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.Setup(logging.DefaultConfig())
		logger.Fatal().Err(err).Msg("Configuration error")
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("Batch interrupted")
			os.Exit(1)
		}
		logger.Fatal().Err(err).Msg("Batch failed")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	s := store.New(cfg.OutputFolder, logging.NewLogger("store"))
	if err := s.EnsureRoot(); err != nil {
		return err
	}

	limiter := ratelimit.New(cfg.Interval(), logging.NewLogger("ratelimit"))

	fcfg := fetcher.DefaultConfig(cfg.APIURL)
	fcfg.RequestTimeout = cfg.RequestTimeout
	f, err := fetcher.New(fcfg, limiter)
	if err != nil {
		return err
	}

	runner, err := batch.New(f, s, batch.Config{
		MaxAgeDays: cfg.MaximumAge,
		Workers:    cfg.Workers,
	})
	if err != nil {
		return err
	}

	raws, err := batch.ReadIdentifierFile(cfg.InputFile)
	if err != nil {
		return err
	}

	logger.Info().
		Int("identifiers", len(raws)).
		Dur("interval", cfg.Interval()).
		Str("output", cfg.OutputFolder).
		Msg("Starting batch")

	_, err = runner.Run(ctx, raws)
	return err
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info().Str("addr", addr).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("Metrics server failed")
	}
}
