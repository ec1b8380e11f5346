// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package witness implements the leader witness: compact evidence
// that a block's author cleared sortition for a given (snapshot,
// beacon) pair, verifiable by any node holding the same snapshot and
// beacon without replaying registry/trust history. The classical
// variant carries a Merkle path against the epoch's weights root; an
// optional succinct-proof variant (package witness/zk) replaces the
// path with a constant-size argument over the same public inputs.
package witness

import (
	"github.com/holiman/uint256"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/snapshot"
	"github.com/luxfi/potrust/sortition"
	"github.com/luxfi/potrust/witness/zk"
)

// LeaderWitness carries just enough to recompute the snapshot leaf and
// recheck the eligibility predicate for one (epoch, slot, validator).
type LeaderWitness struct {
	Who         registry.ValidatorID
	Epoch       uint64
	Slot        uint64
	StakeQ      q32.Q
	TrustQ      q32.Q
	MerkleIndex uint64
	MerklePath  [][32]byte
}

// ActiveChecker reports whether a validator is active and its current
// stake, as satisfied by *registry.Registry.
type ActiveChecker interface {
	IsActive(id registry.ValidatorID) bool
	StakeOf(id registry.ValidatorID) (*uint256.Int, bool)
}

// Params bundles the tunables needed to reverify a witness.
type Params struct {
	MinBond  *uint256.Int
	LambdaQ  q32.Q
	MinSlot  uint64
	MaxSlot  uint64
}

// Verify reconstructs and checks a classical leader witness against
// snap, beacon, reg, and params, following spec.md §4.8's six steps.
// On success it returns the block's tie-break weight.
func Verify(snap *snapshot.Snapshot, beacon [32]byte, reg ActiveChecker, w *LeaderWitness, p Params) (blockWeight uint64, err error) {
	if w.Epoch != snap.Epoch || w.Slot < p.MinSlot || w.Slot > p.MaxSlot {
		return 0, errs.ErrWrongEpoch
	}

	if !reg.IsActive(w.Who) {
		return 0, errs.ErrInactive
	}
	stake, ok := reg.StakeOf(w.Who)
	if !ok || stake.Cmp(p.MinBond) < 0 {
		return 0, errs.ErrInsufficientBond
	}

	if !snapshot.VerifyLeaf(snap.WeightsRoot, w.Who, w.StakeQ, w.TrustQ, w.MerkleIndex, w.MerklePath) {
		return 0, errs.ErrBadMerklePath
	}

	draw := sortition.Check(beacon, w.Slot, w.Who, w.StakeQ, w.TrustQ, snap.SumWeightsQ, p.LambdaQ)
	if !draw.Eligible {
		return 0, errs.ErrNotEligible
	}

	return draw.BlockWeight, nil
}

// VerifyZK reverifies a leader witness the same way Verify does for
// the active/bond/epoch-window checks, but replaces the Merkle-path
// reconstruction with a succinct proof over the same public inputs
// {weights_root, beacon_value, threshold_q, sum_weights_q}, per
// spec.md §4.8's "either variant accepted per deployment flag"
// requirement. Eligibility and the tie-break weight are still
// recomputed directly from w's claimed stake_q/trust_q, since neither
// needs to stay hidden from the verifier - the proof's job is only to
// attest that those values are the ones actually committed in
// weights_root, without transmitting the Merkle path itself.
func VerifyZK(snap *snapshot.Snapshot, beacon [32]byte, reg ActiveChecker, w *LeaderWitness, proof zk.Proof, verifier *zk.Verifier, p Params) (blockWeight uint64, err error) {
	if w.Epoch != snap.Epoch || w.Slot < p.MinSlot || w.Slot > p.MaxSlot {
		return 0, errs.ErrWrongEpoch
	}

	if !reg.IsActive(w.Who) {
		return 0, errs.ErrInactive
	}
	stake, ok := reg.StakeOf(w.Who)
	if !ok || stake.Cmp(p.MinBond) < 0 {
		return 0, errs.ErrInsufficientBond
	}

	pi := zk.PublicInputs{
		WeightsRoot: snap.WeightsRoot,
		BeaconValue: beacon,
		ThresholdQ:  sortition.ProbabilityQ(w.StakeQ, w.TrustQ, snap.SumWeightsQ, p.LambdaQ),
		SumWeightsQ: snap.SumWeightsQ,
	}
	if err := verifier.Verify(pi, proof); err != nil {
		return 0, err
	}

	draw := sortition.Check(beacon, w.Slot, w.Who, w.StakeQ, w.TrustQ, snap.SumWeightsQ, p.LambdaQ)
	if !draw.Eligible {
		return 0, errs.ErrNotEligible
	}

	return draw.BlockWeight, nil
}
