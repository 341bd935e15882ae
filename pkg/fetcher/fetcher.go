// Package fetcher performs single-document fetches against the remote
// registry API with rate limiting, bounded retry, and error
// classification.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jpalmeida/regfetch/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for fetch operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regfetch_requests_total",
		Help: "Total outbound requests by outcome",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "regfetch_request_duration_seconds",
		Help:    "Outbound request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regfetch_retries_total",
		Help: "Total retry attempts by error class",
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regfetch_retry_exhausted_total",
		Help: "Total fetches that exhausted all attempts by error class",
	}, []string{"error_class"})
)

// Config holds the fetcher configuration.
type Config struct {
	// BaseURL is the endpoint prefix; the normalized identifier is
	// appended to it to form the request URL.
	BaseURL string

	// MaxAttempts is the total attempt budget per identifier.
	MaxAttempts int

	// RetryBackoff is the fixed pause between retriable attempts.
	RetryBackoff time.Duration

	// RequestTimeout is the per-attempt deadline. Zero disables it and
	// falls back to whatever the transport provides.
	RequestTimeout time.Duration
}

// DefaultConfig returns the default fetcher configuration for a base URL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		MaxAttempts:    3,
		RetryBackoff:   2 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// Fetcher downloads one document per identifier, spacing request starts
// through a shared rate limiter.
type Fetcher struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	config     Config
	logger     zerolog.Logger
}

// New creates a fetcher. The limiter is shared with any other fetchers or
// workers so the inter-request interval holds globally.
func New(cfg Config, limiter *ratelimit.Limiter) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &Fetcher{
		httpClient: &http.Client{},
		limiter:    limiter,
		config:     cfg,
		logger:     log.With().Str("component", "fetcher").Logger(),
	}, nil
}

// Fetch retrieves the document for a normalized identifier and returns
// the raw response body. Attempts are spaced by the shared limiter;
// retriable failures (timeout, network, 5xx) are repeated up to the
// attempt budget with a fixed backoff in between. Client errors (4xx)
// are final immediately. Returns ErrRetryExhausted when the budget runs
// out.
func (f *Fetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	url := f.config.BaseURL + id

	var lastErr error
	for attempt := 1; attempt <= f.config.MaxAttempts; attempt++ {
		if attempt == 1 {
			if err := f.limiter.Acquire(ctx); err != nil {
				return nil, err
			}
		} else {
			// Retries skip the interval wait but still count as a
			// request start for the next caller's spacing.
			f.limiter.Mark()
		}

		body, err := f.attempt(ctx, url)
		if err == nil {
			if attempt > 1 {
				f.logger.Info().
					Str("identifier", id).
					Int("attempt", attempt).
					Msg("Fetch succeeded after retry")
			}
			return body, nil
		}
		lastErr = err

		class := ErrorClassNetwork
		var fe *FetchError
		if errors.As(err, &fe) {
			class = fe.Class
		}

		f.logger.Warn().
			Err(err).
			Str("identifier", id).
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Msg("Fetch attempt failed")

		if !shouldRetry(class) {
			return nil, lastErr
		}
		if attempt >= f.config.MaxAttempts {
			retryExhaustedTotal.WithLabelValues(string(class)).Inc()
			break
		}

		retriesTotal.WithLabelValues(string(class)).Inc()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.config.RetryBackoff):
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, f.config.MaxAttempts, lastErr)
}

// attempt performs one GET with the per-attempt deadline applied.
func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, error) {
	if f.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.config.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	requestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		class := classifyErr(err)
		requestsTotal.WithLabelValues(string(class)).Inc()
		return nil, &FetchError{Class: class, Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Class:      classifyStatus(resp.StatusCode),
			Err:        ErrUnexpectedStatus,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		class := classifyErr(err)
		return nil, &FetchError{Class: class, Err: err}
	}
	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}
