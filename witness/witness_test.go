// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package witness

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/snapshot"
)

type fixedTrust struct{ v q32.Q }

func (f fixedTrust) TrustOf(registry.ValidatorID) q32.Q { return f.v }

type fakeRegistry struct {
	active map[registry.ValidatorID]bool
	stake  map[registry.ValidatorID]*uint256.Int
}

func (f fakeRegistry) IsActive(id registry.ValidatorID) bool { return f.active[id] }
func (f fakeRegistry) StakeOf(id registry.ValidatorID) (*uint256.Int, bool) {
	s, ok := f.stake[id]
	return s, ok
}

func id(b byte) registry.ValidatorID {
	var v registry.ValidatorID
	v[0] = b
	return v
}

func buildFixture(t *testing.T, seed byte) (*snapshot.Snapshot, fakeRegistry) {
	khash.InitForTest([32]byte{seed})
	stakes := []registry.StakeSnapshot{
		{ID: id(1), Stake: uint256.NewInt(1000)},
		{ID: id(2), Stake: uint256.NewInt(1000)},
	}
	snap, err := snapshot.Build(3, stakes, fixedTrust{v: q32.ONE}, uint256.NewInt(0))
	require.NoError(t, err)

	reg := fakeRegistry{
		active: map[registry.ValidatorID]bool{id(1): true, id(2): true},
		stake:  map[registry.ValidatorID]*uint256.Int{id(1): uint256.NewInt(1000), id(2): uint256.NewInt(1000)},
	}
	return snap, reg
}

func TestVerifyAcceptsEligibleWitness(t *testing.T) {
	snap, reg := buildFixture(t, 30)
	p := Params{MinBond: uint256.NewInt(0), LambdaQ: q32.ONE, MinSlot: 0, MaxSlot: 1000}

	var found bool
	for slot := uint64(0); slot < 1000; slot++ {
		beacon := khash.Hash(khash.LabelEligibility, khash.LE64(slot))
		lw := &LeaderWitness{
			Who: snap.Order[0], Epoch: snap.Epoch, Slot: slot,
			StakeQ: snap.StakeQ[0], TrustQ: snap.TrustQ[0],
			MerkleIndex: 0, MerklePath: snap.ProofFor(0),
		}
		w, err := Verify(snap, beacon, reg, lw, p)
		if err == nil {
			found = true
			require.Greater(t, w, uint64(0))
			break
		}
		require.ErrorIs(t, err, errs.ErrNotEligible)
	}
	require.True(t, found, "expected at least one eligible slot within the search window")
}

func TestVerifyRejectsWrongEpoch(t *testing.T) {
	snap, reg := buildFixture(t, 31)
	p := Params{MinBond: uint256.NewInt(0), LambdaQ: q32.ONE, MinSlot: 0, MaxSlot: 1000}
	lw := &LeaderWitness{Who: snap.Order[0], Epoch: snap.Epoch + 1, Slot: 0, StakeQ: snap.StakeQ[0], TrustQ: snap.TrustQ[0]}
	_, err := Verify(snap, [32]byte{}, reg, lw, p)
	require.ErrorIs(t, err, errs.ErrWrongEpoch)
}

func TestVerifyRejectsInactive(t *testing.T) {
	snap, reg := buildFixture(t, 32)
	reg.active[id(1)] = false
	p := Params{MinBond: uint256.NewInt(0), LambdaQ: q32.ONE, MinSlot: 0, MaxSlot: 1000}
	lw := &LeaderWitness{Who: id(1), Epoch: snap.Epoch, Slot: 0, StakeQ: snap.StakeQ[0], TrustQ: snap.TrustQ[0]}
	_, err := Verify(snap, [32]byte{}, reg, lw, p)
	require.ErrorIs(t, err, errs.ErrInactive)
}

func TestVerifyRejectsInsufficientBond(t *testing.T) {
	snap, reg := buildFixture(t, 33)
	p := Params{MinBond: uint256.NewInt(5000), LambdaQ: q32.ONE, MinSlot: 0, MaxSlot: 1000}
	lw := &LeaderWitness{Who: id(1), Epoch: snap.Epoch, Slot: 0, StakeQ: snap.StakeQ[0], TrustQ: snap.TrustQ[0]}
	_, err := Verify(snap, [32]byte{}, reg, lw, p)
	require.ErrorIs(t, err, errs.ErrInsufficientBond)
}

func TestVerifyRejectsBadMerklePath(t *testing.T) {
	snap, reg := buildFixture(t, 34)
	p := Params{MinBond: uint256.NewInt(0), LambdaQ: q32.ONE, MinSlot: 0, MaxSlot: 1000}
	path := snap.ProofFor(0)
	if len(path) > 0 {
		path[0][0] ^= 0xFF
	}
	lw := &LeaderWitness{Who: snap.Order[0], Epoch: snap.Epoch, Slot: 0, StakeQ: snap.StakeQ[0], TrustQ: snap.TrustQ[0], MerkleIndex: 0, MerklePath: path}
	_, err := Verify(snap, [32]byte{}, reg, lw, p)
	require.ErrorIs(t, err, errs.ErrBadMerklePath)
}
