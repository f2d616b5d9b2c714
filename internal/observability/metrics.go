// Package observability keeps the process-local sync counters. They can be
// dumped in the Prometheus text format for node_exporter's textfile collector.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every grimoire collector. It is separate from the default
// registry so the textfile dump contains only tracker metrics.
var Registry = prometheus.NewRegistry()

var (
	togglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grimoire",
		Subsystem: "progress",
		Name:      "toggles_total",
		Help:      "Optimistic toggles by remote outcome.",
	}, []string{"result"})
	rollbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grimoire",
		Subsystem: "progress",
		Name:      "rollbacks_total",
		Help:      "Rollbacks after a failed upsert, applied or skipped because a newer write superseded them.",
	}, []string{"result"})
	loadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grimoire",
		Subsystem: "progress",
		Name:      "loads_total",
		Help:      "Progress loads by outcome.",
	}, []string{"result"})
	resetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grimoire",
		Subsystem: "progress",
		Name:      "resets_total",
		Help:      "Bulk resets by remote outcome.",
	}, []string{"result"})
	remoteSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grimoire",
		Subsystem: "remote",
		Name:      "request_duration_seconds",
		Help:      "Latency of remote store calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

func init() {
	Registry.MustRegister(togglesTotal, rollbacksTotal, loadsTotal, resetsTotal, remoteSeconds)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordToggle counts a finished toggle.
func RecordToggle(err error) { togglesTotal.WithLabelValues(outcome(err)).Inc() }

// RecordRollback counts a rollback; superseded ones left newer state alone.
func RecordRollback(superseded bool) {
	if superseded {
		rollbacksTotal.WithLabelValues("superseded").Inc()
		return
	}
	rollbacksTotal.WithLabelValues("applied").Inc()
}

// RecordLoad counts a finished load.
func RecordLoad(err error) { loadsTotal.WithLabelValues(outcome(err)).Inc() }

// RecordReset counts a finished reset.
func RecordReset(err error) { resetsTotal.WithLabelValues(outcome(err)).Inc() }

// ObserveRemote records how long one remote call took.
func ObserveRemote(op string, seconds float64) {
	remoteSeconds.WithLabelValues(op).Observe(seconds)
}

// WriteTextfile dumps the registry to path atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
