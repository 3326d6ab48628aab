package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradejournal_uploads_total",
		Help: "Uploads processed, by result",
	}, []string{"result"})

	Rows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradejournal_rows_total",
		Help: "Journal rows seen during cleaning, by fate",
	}, []string{"fate"})

	StageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradejournal_stage_latency_seconds",
		Help:    "Latency of each upload pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	Forwards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradejournal_forward_total",
		Help: "Forwarded batches, by sink and result",
	}, []string{"sink", "result"})

	CachedReports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradejournal_cached_reports",
		Help: "Reports held by the in-memory report cache",
	})
)

// ObserveStage records the time elapsed since start for stage.
func ObserveStage(stage string, start time.Time) {
	StageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
