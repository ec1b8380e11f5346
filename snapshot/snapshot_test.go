// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

type fixedTrust struct{ v q32.Q }

func (f fixedTrust) TrustOf(registry.ValidatorID) q32.Q { return f.v }

func id(b byte) registry.ValidatorID {
	var v registry.ValidatorID
	v[0] = b
	return v
}

func TestBuildSingleValidator(t *testing.T) {
	khash.InitForTest([32]byte{1})
	stakes := []registry.StakeSnapshot{{ID: id(1), Stake: uint256.NewInt(1_000_000)}}

	snap, err := Build(7, stakes, fixedTrust{v: q32.ONE / 2}, uint256.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, q32.ONE, snap.StakeQ[0])
	require.Equal(t, q32.ONE/2, snap.TrustQ[0])
	require.NotEqual(t, EmptyRoot(), snap.WeightsRoot)
}

// S6: build a snapshot of 8 validators and verify every leaf's Merkle
// proof, including failure on any sibling swap.
func TestMerkleProofS6(t *testing.T) {
	khash.InitForTest([32]byte{2})

	var stakes []registry.StakeSnapshot
	for i := byte(1); i <= 8; i++ {
		stakes = append(stakes, registry.StakeSnapshot{ID: id(i), Stake: uint256.NewInt(uint64(i) * 1000)})
	}

	snap, err := Build(1, stakes, fixedTrust{v: q32.ONE}, uint256.NewInt(0))
	require.NoError(t, err)
	require.Len(t, snap.Order, 8)

	for i := range snap.Order {
		path := snap.ProofFor(i)
		ok := VerifyLeaf(snap.WeightsRoot, snap.Order[i], snap.StakeQ[i], snap.TrustQ[i], uint64(i), path)
		require.True(t, ok, "leaf %d should verify", i)

		if len(path) > 0 {
			tampered := make([][32]byte, len(path))
			copy(tampered, path)
			tampered[0][0] ^= 0xFF
			ok = VerifyLeaf(snap.WeightsRoot, snap.Order[i], snap.StakeQ[i], snap.TrustQ[i], uint64(i), tampered)
			require.False(t, ok, "tampered sibling must fail verification")
		}
	}
}

func TestSumWeightsQMatchesSumOfProducts(t *testing.T) {
	khash.InitForTest([32]byte{3})
	var stakes []registry.StakeSnapshot
	for i := byte(1); i <= 4; i++ {
		stakes = append(stakes, registry.StakeSnapshot{ID: id(i), Stake: uint256.NewInt(uint64(i) * 100)})
	}
	snap, err := Build(1, stakes, fixedTrust{v: q32.ONE / 2}, uint256.NewInt(0))
	require.NoError(t, err)

	var want uint256.Int
	for i := range snap.Order {
		term := q32.Mul(snap.StakeQ[i], snap.TrustQ[i])
		want.Add(&want, uint256.NewInt(uint64(term)))
	}
	require.Equal(t, 0, want.Cmp(snap.SumWeightsQ))
}

func TestMinBondExcludesValidators(t *testing.T) {
	khash.InitForTest([32]byte{4})
	stakes := []registry.StakeSnapshot{
		{ID: id(1), Stake: uint256.NewInt(5)},
		{ID: id(2), Stake: uint256.NewInt(500)},
	}
	snap, err := Build(1, stakes, fixedTrust{v: q32.ONE}, uint256.NewInt(100))
	require.NoError(t, err)
	require.Len(t, snap.Order, 1)
	require.Equal(t, id(2), snap.Order[0])
}

func TestEmptySnapshotRoot(t *testing.T) {
	khash.InitForTest([32]byte{5})
	snap, err := Build(1, nil, fixedTrust{}, uint256.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, EmptyRoot(), snap.WeightsRoot)
}
