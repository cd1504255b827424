// Package metrics defines and registers all custom Prometheus metrics for the
// JobRadar API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the router exposes them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jobradar/jobradar/internal/core/ports"
)

const namespace = "jobradar"

// IngestRunsTotal counts ingestion runs by outcome.
// Label:
//   - result: "ok" or "error"
var IngestRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_runs_total",
		Help:      "Total number of ingestion runs, by outcome.",
	},
	[]string{"result"},
)

// JobsIngestedTotal counts per-posting ingestion decisions.
// Label:
//   - result: "saved", "duplicate", or "failed"
var JobsIngestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_ingested_total",
		Help:      "Total number of postings processed by the ingestion pipeline, by result.",
	},
	[]string{"result"},
)

// DigestEmailsTotal counts per-recipient digest sends.
// Label:
//   - result: "sent" or "failed"
var DigestEmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "digest_emails_total",
		Help:      "Total number of digest emails attempted, by result.",
	},
	[]string{"result"},
)

// DigestRunDuration measures one full digest dispatch, including sends and
// the mark-emailed update.
var DigestRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "digest_run_duration_seconds",
		Help:      "Duration of a digest dispatch run.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ObserveIngest records the outcome of one ingestion run.
func ObserveIngest(res *ports.IngestResult, err error) {
	if err != nil {
		IngestRunsTotal.WithLabelValues("error").Inc()
		return
	}
	IngestRunsTotal.WithLabelValues("ok").Inc()
	JobsIngestedTotal.WithLabelValues("saved").Add(float64(res.Saved))
	JobsIngestedTotal.WithLabelValues("duplicate").Add(float64(res.Duplicates))
	JobsIngestedTotal.WithLabelValues("failed").Add(float64(res.Failed))
}

// ObserveDispatch records the outcome of one digest dispatch run.
func ObserveDispatch(res *ports.DispatchResult, took time.Duration) {
	if res == nil {
		return
	}
	DigestEmailsTotal.WithLabelValues("sent").Add(float64(res.EmailsSent))
	DigestEmailsTotal.WithLabelValues("failed").Add(float64(res.EmailsFailed))
	DigestRunDuration.Observe(took.Seconds())
}
