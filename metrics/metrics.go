// Package metrics exposes prometheus counters/gauges/histograms for
// the propagation pipeline (grounded on
// pobradovic08-route-beacon-ri/internal/metrics/metrics.go's module-
// var CounterVec/GaugeVec/HistogramVec shape).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ASesBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpsim_ases_built_total",
			Help: "ASes created while building the relationship graph.",
		},
		[]string{},
	)

	EdgesParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpsim_edges_parsed_total",
			Help: "Relationship edges parsed from the input file, by kind.",
		},
		[]string{"kind"},
	)

	ROVDropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpsim_rov_drops_total",
			Help: "Announcements dropped at receive time by an ROV policy.",
		},
		[]string{},
	)

	LoopDropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpsim_loop_drops_total",
			Help: "Candidate announcements rejected for forming a path loop.",
		},
		[]string{},
	)

	RIBInstallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpsim_rib_installs_total",
			Help: "RIB entries installed or replaced, by propagation phase.",
		},
		[]string{"phase"},
	)

	PhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgpsim_phase_duration_seconds",
			Help:    "Wall time spent in each propagation phase.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)
)

var registerOnce sync.Once

// Register adds every metric to the default prometheus registry. Only
// the first call registers; later calls do nothing.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ASesBuilt,
			EdgesParsed,
			ROVDropsTotal,
			LoopDropsTotal,
			RIBInstallsTotal,
			PhaseDuration,
		)
	})
}
