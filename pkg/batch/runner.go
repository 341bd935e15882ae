// Package batch drives the end-to-end fetch loop: for each raw
// identifier, consult the cache store, decide whether to (re)fetch,
// invoke the fetcher, and persist the result. Failures are isolated per
// identifier; one failed fetch never stops the batch.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jpalmeida/regfetch/pkg/fetcher"
	"github.com/jpalmeida/regfetch/pkg/identifier"
	"github.com/jpalmeida/regfetch/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var identifiersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "regfetch_identifiers_total",
	Help: "Processed identifiers by outcome",
}, []string{"outcome"})

// Status is the terminal state of one identifier's iteration.
type Status string

const (
	// StatusSaved means a fresh document was fetched and written.
	StatusSaved Status = "saved"

	// StatusSkipped means a fresh artifact already existed.
	StatusSkipped Status = "skipped"

	// StatusFailed means the fetch or the artifact write failed.
	StatusFailed Status = "failed"

	// StatusEmpty means the identifier normalized to the empty string.
	StatusEmpty Status = "empty"
)

// Result describes the outcome for a single identifier.
type Result struct {
	Raw        string
	Identifier string
	Status     Status
	Path       string
	Err        error
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Saved    int
	Skipped  int
	Failed   int
	Empty    int
	Duration time.Duration
}

// Total returns the number of identifiers processed.
func (s Summary) Total() int {
	return s.Saved + s.Skipped + s.Failed + s.Empty
}

// Config holds the runner configuration.
type Config struct {
	// MaxAgeDays is the maximum artifact age before a refetch. An
	// artifact exactly this old is still fresh.
	MaxAgeDays int64

	// Workers is the number of concurrent fetch workers. Values below 2
	// give the sequential reference behavior, preserving input order.
	// Workers share one rate limiter, so the global inter-request
	// spacing holds regardless of this value.
	Workers int
}

// Runner executes a batch over a fetcher and a store.
type Runner struct {
	fetcher *fetcher.Fetcher
	store   *store.Store
	config  Config
	logger  zerolog.Logger
}

// New creates a batch runner.
func New(f *fetcher.Fetcher, s *store.Store, cfg Config) (*Runner, error) {
	if f == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Runner{
		fetcher: f,
		store:   s,
		config:  cfg,
		logger:  log.With().Str("component", "batch").Logger(),
	}, nil
}

// Run processes all identifiers and returns the aggregated summary.
// Per-identifier failures are contained; Run only returns an error when
// the context is cancelled before the batch completes.
func (r *Runner) Run(ctx context.Context, raws []string) (Summary, error) {
	start := time.Now()

	var summary Summary
	var err error
	if r.config.Workers > 1 {
		err = r.runConcurrent(ctx, raws, &summary)
	} else {
		err = r.runSequential(ctx, raws, &summary)
	}

	summary.Duration = time.Since(start)
	r.logger.Info().
		Int("saved", summary.Saved).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("empty", summary.Empty).
		Dur("duration", summary.Duration).
		Msg("Batch complete")

	return summary, err
}

func (r *Runner) runSequential(ctx context.Context, raws []string, summary *Summary) error {
	for _, raw := range raws {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		summary.add(r.process(ctx, raw))
	}
	return nil
}

func (r *Runner) runConcurrent(ctx context.Context, raws []string, summary *Summary) error {
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for _, raw := range raws {
		if gctx.Err() != nil {
			break
		}
		raw := raw
		g.Go(func() error {
			res := r.process(gctx, raw)
			mu.Lock()
			summary.add(res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Summary) add(res Result) {
	identifiersTotal.WithLabelValues(string(res.Status)).Inc()
	switch res.Status {
	case StatusSaved:
		s.Saved++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	case StatusEmpty:
		s.Empty++
	}
}

// process runs the state machine for one raw identifier.
func (r *Runner) process(ctx context.Context, raw string) Result {
	id := identifier.Normalize(raw)
	if id == "" {
		r.logger.Debug().Str("raw", raw).Msg("No digits in identifier, nothing to fetch")
		return Result{Raw: raw, Status: StatusEmpty}
	}

	res := Result{Raw: raw, Identifier: id}

	if r.fresh(id) {
		r.logger.Info().Str("identifier", id).Msg("Skipping, artifact already saved and fresh")
		res.Status = StatusSkipped
		return res
	}

	r.logger.Info().Str("identifier", id).Msg("Requesting registry data")
	body, err := r.fetcher.Fetch(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("identifier", id).Msg("Got nothing, continuing with next identifier")
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	path, err := r.store.Write(id, body)
	if err != nil {
		r.logger.Error().Err(err).Str("identifier", id).Msg("Artifact write failed")
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	res.Status = StatusSaved
	res.Path = path
	return res
}

// fresh reports whether an artifact for id exists and is young enough to
// skip the fetch. A substring match without a readable canonical artifact
// counts as stale so the identifier is fetched rather than dropped.
func (r *Runner) fresh(id string) bool {
	if !r.store.Exists(id) {
		return false
	}
	age, err := r.store.AgeDays(r.store.ArtifactPath(id))
	if err != nil {
		return false
	}
	return !store.Expired(age, r.config.MaxAgeDays)
}
