package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArtifactWrites tracks successfully written cache artifacts.
	ArtifactWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regfetch_artifact_writes_total",
			Help: "Total number of cache artifacts written",
		},
	)

	// ArtifactWriteErrors tracks failed artifact writes.
	ArtifactWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regfetch_artifact_write_errors_total",
			Help: "Total number of failed cache artifact writes",
		},
	)

	// ArtifactBytesWritten tracks the cumulative size of written artifacts.
	ArtifactBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regfetch_artifact_bytes_written_total",
			Help: "Total bytes of response bodies written to the cache",
		},
	)
)
