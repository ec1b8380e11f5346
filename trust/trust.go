// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trust implements the recursive trust scoring engine (RTT): a
// deterministic fixed-point function combining exponentially-decayed
// history, peer vouching with an anti-Sybil cap, and current work
// quality, updated once per epoch.
package trust

import (
	"sync"

	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

// Params holds the tunables of the RTT update, matching spec.md §4.4
// and the `trust.*` entries of spec.md §6's configuration enumeration.
type Params struct {
	AlphaQ q32.Q // EWMA decay factor, default 0.99*ONE
	InitQ  q32.Q // initial trust score for a newly seen validator
	FloorQ q32.Q // trust score never drops below this

	Beta1Q q32.Q // history weight; Beta1Q+Beta2Q+Beta3Q must equal q32.ONE
	Beta2Q q32.Q // vouch weight
	Beta3Q q32.Q // quality weight

	SampleWeights SampleWeights
}

// SampleWeights maps QualitySample fields onto the Q contribution to
// the per-epoch quality score, per spec.md §4.4.
type SampleWeights struct {
	BlockProducedQ   q32.Q // w_bp
	VerifiedProofsQ  q32.Q // w_vp
	UptimeQ          q32.Q // w_up
	FeesQ            q32.Q // w_fee
	VerifiedTarget   uint32
	FeesNormalizer   uint64
}

// DefaultParams returns the defaults named in spec.md §4.4.
func DefaultParams() Params {
	return Params{
		AlphaQ: q32.Q(float64ToQ(0.99)),
		InitQ:  q32.ONE / 2,
		FloorQ: q32.ONE / 100, // 1%, conservative non-zero floor
		Beta1Q: float64ToQ(0.4),
		Beta2Q: float64ToQ(0.3),
		Beta3Q: float64ToQ(0.3),
		SampleWeights: SampleWeights{
			BlockProducedQ:  float64ToQ(0.4),
			VerifiedProofsQ: float64ToQ(0.3),
			UptimeQ:         float64ToQ(0.2),
			FeesQ:           float64ToQ(0.1),
			VerifiedTarget:  1,
			FeesNormalizer:  1,
		},
	}
}

func float64ToQ(f float64) q32.Q {
	return q32.Q(f * float64(q32.ONE))
}

// QualitySample is a single validator's observed per-epoch behavior,
// produced by the consensus loop and consumed exactly once by Update.
type QualitySample struct {
	BlockProduced   bool
	VerifiedProofs  uint32
	GeneratedProofs uint32
	FeesCollected   uint64
	Uptime          q32.Q
	Peers           uint32
}

// record is a single validator's RTT state.
type record struct {
	historyQ q32.Q
	trustQ   q32.Q
}

// State holds, for every validator, the EWMA history value and the
// current trust score, plus the vouch graph feeding V_q.
type State struct {
	mu      sync.RWMutex
	params  Params
	records map[registry.ValidatorID]*record
	vouches *vouchGraph
}

// New returns an empty trust state using params.
func New(params Params) *State {
	return &State{
		params:  params,
		records: make(map[registry.ValidatorID]*record),
		vouches: newVouchGraph(),
	}
}

// TrustOf returns a validator's current trust score, or params.InitQ if
// the validator has never been observed.
func (s *State) TrustOf(id registry.ValidatorID) q32.Q {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trustOfLocked(id)
}

func (s *State) trustOfLocked(id registry.ValidatorID) q32.Q {
	if r, ok := s.records[id]; ok {
		return r.trustQ
	}
	return s.params.InitQ
}

// ensureLocked returns (creating if needed) the record for id, seeded
// with the configured init value.
func (s *State) ensureLocked(id registry.ValidatorID) *record {
	r, ok := s.records[id]
	if !ok {
		r = &record{historyQ: s.params.InitQ, trustQ: s.params.InitQ}
		s.records[id] = r
	}
	return r
}

// Update applies one epoch's worth of quality samples, in validator-id
// order (callers must pass samples already sorted, matching spec.md §5's
// "trust updates are applied only at epoch boundaries, in validator-id
// order"). Update never fails; values may saturate at their bounds.
func (s *State) Update(samples []IDSample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, is := range samples {
		r := s.ensureLocked(is.ID)

		qualityQ := quality(is.Sample, s.params.SampleWeights)
		r.historyQ = q32.Add(
			q32.Mul(s.params.AlphaQ, r.historyQ),
			q32.Mul(q32.Sub(q32.ONE, s.params.AlphaQ), qualityQ),
		)

		vouchQ := s.vouches.aggregate(is.ID, s.trustOfLocked)

		zQ := q32.Add(
			q32.Add(
				q32.Mul(s.params.Beta1Q, r.historyQ),
				q32.Mul(s.params.Beta2Q, vouchQ),
			),
			q32.Mul(s.params.Beta3Q, qualityQ),
		)

		tQ := sCurve(zQ)
		if tQ < s.params.FloorQ {
			tQ = s.params.FloorQ
		}
		r.trustQ = q32.Clamp01(tQ)
	}
}

// IDSample pairs a validator with its per-epoch quality sample.
type IDSample struct {
	ID     registry.ValidatorID
	Sample QualitySample
}

// quality maps a QualitySample onto Q via the configured weights,
// clamped to [0, ONE].
func quality(s QualitySample, w SampleWeights) q32.Q {
	var total q32.Q

	if s.BlockProduced {
		total = q32.Add(total, w.BlockProducedQ)
	}

	if w.VerifiedTarget > 0 {
		ratio, err := q32.FromRatio(uint64(s.VerifiedProofs), uint64(w.VerifiedTarget))
		if err == nil {
			total = q32.Add(total, q32.Mul(w.VerifiedProofsQ, q32.Clamp01(ratio)))
		}
	}

	total = q32.Add(total, q32.Mul(w.UptimeQ, q32.Clamp01(s.Uptime)))

	if w.FeesNormalizer > 0 {
		ratio, err := q32.FromRatio(s.FeesCollected, w.FeesNormalizer)
		if err == nil {
			total = q32.Add(total, q32.Mul(w.FeesQ, q32.Clamp01(ratio)))
		}
	}

	return q32.Clamp01(total)
}

// sCurve computes the cubic smoothstep S(x) = 3x^2 - 2x^3 over x in
// [0, ONE], chosen (per spec.md §4.4/§9) because it is monotone,
// bounded, deterministic, and needs no transcendental function — only
// Q multiplication and integer scaling.
func sCurve(x q32.Q) q32.Q {
	x2 := q32.Mul(x, x)
	x3 := q32.Mul(x2, x)

	three := q32.Q(3 * uint64(x2))
	two := q32.Q(2 * uint64(x3))
	if three < two {
		return 0
	}
	return q32.Clamp01(three - two)
}

// ForceFloor overrides a validator's trust score to the configured
// floor, bypassing the EWMA path entirely. Used exclusively by
// equivocation handling (spec.md §4.10): equivocation evidence
// overrides the normal update path.
func (s *State) ForceFloor(id registry.ValidatorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.ensureLocked(id)
	r.trustQ = s.params.FloorQ
	r.historyQ = s.params.FloorQ
}
