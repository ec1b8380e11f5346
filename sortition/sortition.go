// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sortition implements stake-and-trust-weighted leader
// eligibility: a keyed-hash draw compared against a bound derived from
// a validator's share of total epoch weight and the global sortition
// rate, per spec.md §4.7.
package sortition

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

// Draw is the outcome of one (beacon, slot, validator) eligibility
// check.
type Draw struct {
	Eligible    bool
	Y           uint64 // the raw keyed-hash draw, for diagnostics
	Bound       uint64
	BlockWeight uint64 // tie-break weight; only meaningful if Eligible
}

// ProbabilityQ computes p_q, the Q32.32 per-slot eligibility
// probability for a validator with stakeQ and trustQ against a
// snapshot's sumWeightsQ and the global rate parameter lambdaQ. Bound
// scales this up to the u64 draw range; the succinct witness variant
// (package witness/zk) instead binds p_q itself into its public
// inputs, since the proof - not a widened threshold - is what a
// verifier checks against.
func ProbabilityQ(stakeQ, trustQ q32.Q, sumWeightsQ *uint256.Int, lambdaQ q32.Q) q32.Q {
	if sumWeightsQ.IsZero() {
		return 0
	}

	w := q32.Mul(stakeQ, trustQ)

	// share = qdiv_u128(w, sumWeightsQ): widen w by 2^32 before
	// dividing by the u128-scale accumulator.
	scaled := new(uint256.Int).Lsh(uint256.NewInt(uint64(w)), 32)
	shareBig := new(uint256.Int).Div(scaled, sumWeightsQ)
	share := q32.Q(shareBig.Uint64())

	return q32.Clamp01(q32.Mul(lambdaQ, share))
}

// Bound computes the eligibility bound for a validator with stakeQ and
// trustQ against a snapshot's sumWeightsQ and the global rate
// parameter lambdaQ.
func Bound(stakeQ, trustQ q32.Q, sumWeightsQ *uint256.Int, lambdaQ q32.Q) uint64 {
	pQ := ProbabilityQ(stakeQ, trustQ, sumWeightsQ, lambdaQ)

	boundBig := new(uint256.Int).Mul(uint256.NewInt(uint64(pQ)), uint256.NewInt(math.MaxUint64))
	boundBig.Rsh(boundBig, 32)
	return boundBig.Uint64()
}

// Check computes the sortition draw for validator id at (epoch, slot)
// against beacon value B, with the validator's stakeQ/trustQ and the
// snapshot's sumWeightsQ/lambdaQ.
func Check(beacon [32]byte, slot uint64, id registry.ValidatorID, stakeQ, trustQ q32.Q, sumWeightsQ *uint256.Int, lambdaQ q32.Q) Draw {
	bound := Bound(stakeQ, trustQ, sumWeightsQ, lambdaQ)
	y := drawY(beacon, slot, id)

	d := Draw{Y: y, Bound: bound}
	if y < bound {
		d.Eligible = true
		d.BlockWeight = blockWeight(y)
	}
	return d
}

func drawY(beacon [32]byte, slot uint64, id registry.ValidatorID) uint64 {
	out := khash.XOF(khash.LabelEligibility, 8, beacon[:], khash.LE64(slot), id[:])
	return khash.Uint64FromBE(out)
}

// blockWeight is the fork-choice tie-break weight for an eligible
// draw: smaller y produces a heavier block.
func blockWeight(y uint64) uint64 {
	return math.MaxUint64 / (y + 1)
}
