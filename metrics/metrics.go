// Package metrics wires the elimination engine and pipeline transport to a
// private Prometheus registry. This is a batch CLI, not a long-running
// daemon, so the registry is never served over HTTP; the orchestrator
// gathers it once at the end of a run and logs a one-line summary, the same
// "dump on completion" pattern aistore's stats runner uses for its own
// end-of-xaction summaries.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registry bundles the counters/histogram for one run. A fresh Registry is
// created per run so concurrent tests never share collectors.
type Registry struct {
	reg *prometheus.Registry

	BlocksSent       *prometheus.CounterVec
	BlocksReceived   *prometheus.CounterVec
	UnitsForwarded   *prometheus.CounterVec
	BlockOccupancy   prometheus.Histogram
}

// New builds and registers a fresh set of collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		BlocksSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dgauss_pivot_blocks_sent_total",
			Help: "Pivot blocks sent, by sending participant rank.",
		}, []string{"rank"}),
		BlocksReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dgauss_pivot_blocks_received_total",
			Help: "Pivot blocks received, by receiving participant rank.",
		}, []string{"rank"}),
		UnitsForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dgauss_pivot_units_forwarded_total",
			Help: "Pivot units forwarded downstream, by forwarding participant rank.",
		}, []string{"rank"}),
		BlockOccupancy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dgauss_pivot_block_occupancy",
			Help:    "Occupancy (pivot units) of blocks at send time.",
			Buckets: prometheus.LinearBuckets(1, 4, 10),
		}),
	}
	reg.MustRegister(r.BlocksSent, r.BlocksReceived, r.UnitsForwarded, r.BlockOccupancy)
	return r
}

// Summary renders a one-line, human-readable rollup suitable for a single
// nlog.Infof call at the end of a run.
func (r *Registry) Summary() string {
	mfs, err := r.reg.Gather()
	if err != nil {
		return fmt.Sprintf("metrics: gather failed: %v", err)
	}
	var sent, recv, fwd float64
	for _, mf := range mfs {
		switch mf.GetName() {
		case "dgauss_pivot_blocks_sent_total":
			sent = sumCounters(mf)
		case "dgauss_pivot_blocks_received_total":
			recv = sumCounters(mf)
		case "dgauss_pivot_units_forwarded_total":
			fwd = sumCounters(mf)
		}
	}
	return fmt.Sprintf("blocks sent=%.0f received=%.0f units-forwarded=%.0f", sent, recv, fwd)
}

func sumCounters(mf *dto.MetricFamily) float64 {
	var total float64
	for _, m := range mf.Metric {
		if m.Counter != nil {
			total += m.Counter.GetValue()
		}
	}
	return total
}
