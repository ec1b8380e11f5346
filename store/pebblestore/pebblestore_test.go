// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebblestore

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestStoreBlockRoundTrip(t *testing.T) {
	s := openTestStore(t)

	header := forkchoice.Header{
		ParentHash: [32]byte{0xAA},
		Digest:     [32]byte{0xBB},
		Height:     1,
		Epoch:      0,
	}
	body := []byte("block body")

	require.NoError(t, s.StoreBlock(header, 42, body))

	got, weight, gotBody, ok, err := s.GetBlock(header.Digest)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, header, got)
	require.Equal(t, uint64(42), weight)
	require.Equal(t, body, gotBody)
}

func TestGetBlockMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)

	_, _, _, ok, err := s.GetBlock([32]byte{0xFF})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)

	var v1, v2 registry.ValidatorID
	v1[0], v2[0] = 1, 2
	snap := &snapshot.Snapshot{
		Epoch:       3,
		Order:       []registry.ValidatorID{v1, v2},
		StakeQ:      []q32.Q{q32.ONE, q32.ONE / 2},
		TrustQ:      []q32.Q{q32.ONE / 2, q32.ONE},
		SumWeightsQ: uint256.NewInt(12345),
		WeightsRoot: [32]byte{0xCC},
	}

	require.NoError(t, s.StoreSnapshot(3, snap))

	got, ok, err := s.GetSnapshot(3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, snap.Epoch, got.Epoch)
	require.Equal(t, snap.Order, got.Order)
	require.Equal(t, snap.StakeQ, got.StakeQ)
	require.Equal(t, snap.TrustQ, got.TrustQ)
	require.Equal(t, snap.WeightsRoot, got.WeightsRoot)
	require.Equal(t, 0, snap.SumWeightsQ.Cmp(got.SumWeightsQ))
}

func TestGetSnapshotMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetSnapshot(99)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListEpochHeadersReturnsStoredBlocks(t *testing.T) {
	s := openTestStore(t)

	h1 := forkchoice.Header{Digest: [32]byte{1}, Epoch: 5}
	h2 := forkchoice.Header{Digest: [32]byte{2}, Epoch: 5}
	h3 := forkchoice.Header{Digest: [32]byte{3}, Epoch: 6}

	require.NoError(t, s.StoreBlock(h1, 1, nil))
	require.NoError(t, s.StoreBlock(h2, 1, nil))
	require.NoError(t, s.StoreBlock(h3, 1, nil))

	headers, err := s.ListEpochHeaders(5)
	require.NoError(t, err)
	require.Len(t, headers, 2)

	digests := map[[32]byte]bool{}
	for _, h := range headers {
		digests[h.Digest] = true
	}
	require.True(t, digests[h1.Digest])
	require.True(t, digests[h2.Digest])
	require.False(t, digests[h3.Digest])
}
