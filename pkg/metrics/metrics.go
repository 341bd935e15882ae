// Package metrics documents the Prometheus metrics exposed by the
// fetcher. All metrics are defined in the package that owns them (batch,
// fetcher, store, ratelimit) and registered via promauto against the
// default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the Prometheus registerer used by all packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Reference
//
// Batch (pkg/batch):
//   - regfetch_identifiers_total{outcome} (Counter): processed
//     identifiers by outcome (saved, skipped, failed, empty)
//
// Fetcher (pkg/fetcher):
//   - regfetch_requests_total{outcome} (Counter): outbound requests by
//     HTTP status code or error class
//   - regfetch_request_duration_seconds (Histogram): request duration
//   - regfetch_retries_total{error_class} (Counter): retry attempts
//   - regfetch_retry_exhausted_total{error_class} (Counter): fetches
//     that ran out of attempts
//
// Store (pkg/store):
//   - regfetch_artifact_writes_total (Counter): artifacts written
//   - regfetch_artifact_write_errors_total (Counter): failed writes
//   - regfetch_artifact_bytes_written_total (Counter): body bytes written
//
// Rate limit (pkg/ratelimit):
//   - regfetch_rate_limit_waits_total (Counter): delayed requests
//   - regfetch_rate_limit_wait_seconds (Histogram): time spent waiting
//
// Example queries:
//
//   # Cache effectiveness
//   rate(regfetch_identifiers_total{outcome="skipped"}[5m]) /
//   rate(regfetch_identifiers_total[5m])
//
//   # Retry pressure
//   rate(regfetch_retries_total[5m])
//
//   # Time lost to throttling
//   rate(regfetch_rate_limit_wait_seconds_sum[5m])
