// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/q32"
)

func id(b byte) ValidatorID {
	var v ValidatorID
	v[0] = b
	return v
}

func TestBondUnbond(t *testing.T) {
	r := New()
	a := id(1)

	r.Bond(a, uint256.NewInt(1_000_000))
	stake, ok := r.StakeOf(a)
	require.True(t, ok)
	require.Equal(t, uint256.NewInt(1_000_000), stake)
	require.True(t, r.IsActive(a))

	require.NoError(t, r.Unbond(a, uint256.NewInt(400_000)))
	stake, _ = r.StakeOf(a)
	require.Equal(t, uint256.NewInt(600_000), stake)
}

func TestUnbondInsufficient(t *testing.T) {
	r := New()
	a := id(1)
	r.Bond(a, uint256.NewInt(10))
	err := r.Unbond(a, uint256.NewInt(20))
	require.ErrorIs(t, err, errs.ErrInsufficientBond)
	stake, _ := r.StakeOf(a)
	require.Equal(t, uint256.NewInt(10), stake, "failed unbond must leave state unchanged")
}

func TestFullExitRemovesEntry(t *testing.T) {
	r := New()
	a := id(1)
	r.Bond(a, uint256.NewInt(10))
	require.NoError(t, r.Unbond(a, uint256.NewInt(10)))
	_, ok := r.StakeOf(a)
	require.False(t, ok)
}

func TestMarkActiveInactive(t *testing.T) {
	r := New()
	a := id(1)
	r.Bond(a, uint256.NewInt(10))
	require.NoError(t, r.MarkInactive(a))
	require.False(t, r.IsActive(a))
	require.NoError(t, r.MarkActive(a))
	require.True(t, r.IsActive(a))
}

func TestSlashAtomic(t *testing.T) {
	r := New()
	a := id(1)
	r.Bond(a, uint256.NewInt(1_000_000))

	require.NoError(t, r.Slash(a, q32.ONE/10)) // 10%
	stake, _ := r.StakeOf(a)
	require.Equal(t, uint256.NewInt(900_000), stake)
}

func TestSlashUnknownValidator(t *testing.T) {
	r := New()
	err := r.Slash(id(9), q32.ONE)
	require.ErrorIs(t, err, errs.ErrInactive)
}

func TestSnapshotStakesSkipsInactive(t *testing.T) {
	r := New()
	a, b := id(1), id(2)
	r.Bond(a, uint256.NewInt(10))
	r.Bond(b, uint256.NewInt(20))
	require.NoError(t, r.MarkInactive(b))

	snap := r.SnapshotStakes()
	require.Len(t, snap, 1)
	require.Equal(t, a, snap[0].ID)
}
