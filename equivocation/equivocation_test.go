// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package equivocation

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

func id(b byte) registry.ValidatorID {
	var v registry.ValidatorID
	v[0] = b
	return v
}

func TestObserveFirstDigestNoEvidence(t *testing.T) {
	d := NewDetector()
	require.Nil(t, d.Observe(id(1), 5, [32]byte{1}))
	require.Nil(t, d.Observe(id(1), 5, [32]byte{1}), "same digest twice is not equivocation")
}

func TestObserveDistinctDigestIsEquivocation(t *testing.T) {
	d := NewDetector()
	require.Nil(t, d.Observe(id(1), 5, [32]byte{1}))
	ev := d.Observe(id(1), 5, [32]byte{2})
	require.NotNil(t, ev)
	require.Equal(t, id(1), ev.Validator)
	require.Equal(t, uint64(5), ev.Slot)
}

func TestObserveIsolatedBySlotAndValidator(t *testing.T) {
	d := NewDetector()
	require.Nil(t, d.Observe(id(1), 5, [32]byte{1}))
	require.Nil(t, d.Observe(id(1), 6, [32]byte{2}), "different slot, no conflict")
	require.Nil(t, d.Observe(id(2), 5, [32]byte{2}), "different validator, no conflict")
}

func TestApplyAppliesAllPenalties(t *testing.T) {
	reg := registry.New()
	reg.Bond(id(1), uint256.NewInt(1000))

	var sawTrust q32.Q
	var trustSet, ejected bool
	eff := Effects{
		Registry:   reg,
		TrustFloor: q32.ONE / 100,
		SlashFrac:  q32.ONE / 2,
		SetTrust: func(_ registry.ValidatorID, q q32.Q) {
			trustSet = true
			sawTrust = q
		},
		EjectFromEpoch: func(registry.ValidatorID) { ejected = true },
	}

	ev := &Evidence{Validator: id(1), Slot: 5, DigestA: [32]byte{1}, DigestB: [32]byte{2}}
	require.NoError(t, Apply(ev, eff))
	require.True(t, trustSet)
	require.Equal(t, q32.ONE/100, sawTrust)
	require.True(t, ejected)

	stake, ok := reg.StakeOf(id(1))
	require.True(t, ok)
	require.Equal(t, uint256.NewInt(500), stake)
}
