// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wires the consensus core's Prometheus instruments:
// one counter/gauge/histogram set per subsystem, registered under a
// single namespace so an operator can scrape one registry for the
// whole node.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry is the subset of a prometheus registry the engine needs:
// registration plus gathering, so callers can substitute a test
// registry without depending on prometheus directly.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewRegistry returns a fresh, empty registry.
func NewRegistry() Registry {
	return prometheus.NewRegistry()
}

// Consensus bundles every metric the slot loop and its collaborators
// update.
type Consensus struct {
	SlotsObserved      prometheus.Counter
	BlocksProduced     prometheus.Counter
	BlocksAccepted     prometheus.Counter
	BlocksRejected     *prometheus.CounterVec
	Reorgs             prometheus.Counter
	EquivocationsFound prometheus.Counter
	TrustUpdateSeconds prometheus.Histogram
	SnapshotBuildSeconds prometheus.Histogram
	HintsVerified      *prometheus.CounterVec
	RandaoReveals      prometheus.Counter
	RandaoNoReveals    prometheus.Counter
}

// New registers and returns the consensus metric set under namespace.
func New(namespace string, reg prometheus.Registerer) (*Consensus, error) {
	c := &Consensus{
		SlotsObserved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "slots_observed_total", Help: "Slots the local node has observed.",
		}),
		BlocksProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "blocks_produced_total", Help: "Blocks authored by the local node.",
		}),
		BlocksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "blocks_accepted_total", Help: "Blocks accepted into the fork tree.",
		}),
		BlocksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "blocks_rejected_total", Help: "Blocks rejected, by reason.",
		}, []string{"reason"}),
		Reorgs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "reorgs_total", Help: "Fork-choice head changes to a non-extending branch.",
		}),
		EquivocationsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "equivocations_total", Help: "Equivocation evidence observed.",
		}),
		TrustUpdateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "trust_update_seconds", Help: "Time spent applying an epoch's trust update.",
		}),
		SnapshotBuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "snapshot_build_seconds", Help: "Time spent building an epoch snapshot.",
		}),
		HintsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "hints_verified_total", Help: "Private-payment hints scanned, by outcome.",
		}, []string{"outcome"}),
		RandaoReveals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "randao_reveals_total", Help: "Accepted RANDAO reveals.",
		}),
		RandaoNoReveals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "randao_no_reveals_total", Help: "Validators slashed for failing to reveal.",
		}),
	}

	collectors := []prometheus.Collector{
		c.SlotsObserved, c.BlocksProduced, c.BlocksAccepted, c.BlocksRejected,
		c.Reorgs, c.EquivocationsFound, c.TrustUpdateSeconds, c.SnapshotBuildSeconds,
		c.HintsVerified, c.RandaoReveals, c.RandaoNoReveals,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}
