// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zk

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/q32"
)

func samplePublicInputs() PublicInputs {
	return PublicInputs{
		WeightsRoot: [32]byte{1, 2, 3},
		BeaconValue: [32]byte{4, 5, 6},
		ThresholdQ:  q32.ONE / 2,
		SumWeightsQ: uint256.NewInt(123456),
	}
}

func TestProveVerifyRoundTrip(t *testing.T) {
	v := NewVerifier()
	vkData := []byte("circuit-v1")
	v.RegisterKey(vkData)

	pi := samplePublicInputs()
	proof := Prove(vkData, pi)
	require.NoError(t, v.Verify(pi, proof))
}

func TestVerifyRejectsUnregisteredKey(t *testing.T) {
	v := NewVerifier()
	pi := samplePublicInputs()
	proof := Prove([]byte("never-registered"), pi)
	require.ErrorIs(t, v.Verify(pi, proof), errs.ErrBadZkProof)
}

func TestVerifyRejectsMismatchedPublicInputs(t *testing.T) {
	v := NewVerifier()
	vkData := []byte("circuit-v1")
	v.RegisterKey(vkData)

	pi := samplePublicInputs()
	proof := Prove(vkData, pi)

	tampered := pi
	tampered.ThresholdQ = q32.ONE
	require.ErrorIs(t, v.Verify(tampered, proof), errs.ErrBadZkProof)
}
