// metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK           = "ok"
	ResultNotFound     = "not_found"
	ResultInvalidInput = "invalid_input"
	ResultError        = "error"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "moviefinder_build_info",
		Help: "Build information of moviefinder",
	}, []string{"version", "commit", "date"})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moviefinder_dataset_rows", Help: "Number of movies in the loaded table.",
	})
	DatasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "moviefinder_dataset_load_duration_seconds",
		Help:    "Time spent loading and normalizing the dataset.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})
	DatasetLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moviefinder_dataset_load_errors_total", Help: "Total failed dataset loads.",
	})
	DatasetDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviefinder_dataset_download_attempts_total", Help: "Dataset download attempts by outcome.",
	}, []string{"result"})

	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviefinder_queries_total", Help: "Queries served by kind and outcome.",
	}, []string{"kind", "result"})
)
