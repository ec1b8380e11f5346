// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package randao

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/registry"
)

func id(b byte) registry.ValidatorID {
	var v registry.ValidatorID
	v[0] = b
	return v
}

// S4: commit/reveal round trip with a flipped-byte reveal rejected.
func TestCommitRevealS4(t *testing.T) {
	khash.InitForTest([32]byte{9})
	b := New()
	es := b.StartEpoch(1, GenesisSeed)

	var secret [32]byte
	for i := range secret {
		secret[i] = 0x55
	}
	commit := khash.Hash(khash.LabelRandaoCommit, secret[:])
	v1 := id(1)
	require.NoError(t, es.Commit(v1, commit))

	flipped := secret
	flipped[31] ^= 0x01
	require.ErrorIs(t, es.Reveal(v1, flipped), ErrRevealMismatch)

	require.NoError(t, es.Reveal(v1, secret))
}

func TestDuplicateCommitRejected(t *testing.T) {
	khash.InitForTest([32]byte{10})
	b := New()
	es := b.StartEpoch(1, GenesisSeed)
	v1 := id(1)

	require.NoError(t, es.Commit(v1, [32]byte{1}))
	require.ErrorIs(t, es.Commit(v1, [32]byte{2}), ErrCommitAlreadyBound)
}

func TestNoRevealTracked(t *testing.T) {
	khash.InitForTest([32]byte{11})
	b := New()
	es := b.StartEpoch(1, GenesisSeed)
	v1, v2 := id(1), id(2)

	var s1 [32]byte
	s1[0] = 1
	require.NoError(t, es.Commit(v1, khash.Hash(khash.LabelRandaoCommit, s1[:])))
	require.NoError(t, es.Commit(v2, [32]byte{2}))
	require.NoError(t, es.Reveal(v1, s1))

	es.Finalize()
	noReveal := es.NoReveal()
	require.Equal(t, []registry.ValidatorID{v2}, noReveal)
}

func TestSlotValueDeterministicAcrossNodes(t *testing.T) {
	khash.InitForTest([32]byte{12})
	seed := [32]byte{0xAB}
	a := SlotValue(5, 3, seed)
	b := SlotValue(5, 3, seed)
	require.Equal(t, a, b)

	c := SlotValue(5, 4, seed)
	require.NotEqual(t, a, c)
}

func TestFinalizedRejectsFurtherCommitsAndReveals(t *testing.T) {
	khash.InitForTest([32]byte{13})
	b := New()
	es := b.StartEpoch(1, GenesisSeed)
	es.Finalize()

	require.ErrorIs(t, es.Commit(id(1), [32]byte{1}), errs.ErrWrongEpoch)
	require.ErrorIs(t, es.Reveal(id(1), [32]byte{1}), errs.ErrWrongEpoch)
}
