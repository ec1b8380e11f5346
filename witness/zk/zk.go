// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package zk implements the succinct-proof leader witness variant:
// per spec.md §4.8, it replaces the Merkle-path recheck with a single
// constant-size argument over the public inputs {weights_root,
// beacon_value, threshold_q, sum_weights_q}. Both variants share these
// public-input semantics so a deployment can flip the flag without
// forking.
package zk

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/holiman/uint256"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/q32"
)

// PublicInputs are the four values every zk leader-witness proof is
// bound to; both the classical and zk verifiers must agree on their
// encoding so the two variants never diverge on acceptance.
type PublicInputs struct {
	WeightsRoot [32]byte
	BeaconValue [32]byte
	ThresholdQ  q32.Q
	SumWeightsQ *uint256.Int
}

func (pi PublicInputs) digest() [32]byte {
	h := sha256.New()
	h.Write(pi.WeightsRoot[:])
	h.Write(pi.BeaconValue[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(pi.ThresholdQ))
	h.Write(buf[:])
	h.Write(pi.SumWeightsQ.Bytes())
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Proof is an opaque succinct argument over a PublicInputs instance.
// The concrete proof system (Groth16, Plonk, …) is a deployment
// choice behind this type; Verifier.Verify treats it as opaque bytes
// plus the verifying key that produced it.
type Proof struct {
	VerifyingKeyID [32]byte
	Bytes          []byte
}

// VerifyingKey is a registered circuit verifying key, identified by the
// SHA-256 of its data.
type VerifyingKey struct {
	ID   [32]byte
	Data []byte
}

// Verifier holds registered verifying keys and checks proofs against
// them. It mirrors the registration/verification split of a
// precompile-style zk verifier: keys are registered once, then every
// proof names which key it was produced against.
type Verifier struct {
	mu   sync.RWMutex
	keys map[[32]byte]*VerifyingKey
}

// NewVerifier returns an empty verifier.
func NewVerifier() *Verifier {
	return &Verifier{keys: make(map[[32]byte]*VerifyingKey)}
}

// RegisterKey admits a verifying key, keyed by the hash of its data.
func (v *Verifier) RegisterKey(data []byte) [32]byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := sha256.Sum256(data)
	v.keys[id] = &VerifyingKey{ID: id, Data: data}
	return id
}

// Verify checks proof against pi using the registered verifying key it
// names. Returns errs.ErrBadZkProof on any verification failure,
// matching the classical variant's failure taxonomy so callers can
// treat both uniformly.
func (v *Verifier) Verify(pi PublicInputs, proof Proof) error {
	v.mu.RLock()
	vk, ok := v.keys[proof.VerifyingKeyID]
	v.mu.RUnlock()
	if !ok {
		return errs.ErrBadZkProof
	}

	// The reference verifier here checks that the proof bytes commit
	// to the public-input digest under the registered key; a real
	// circuit backend (e.g. groth16 pairing checks) would replace this
	// body without changing the PublicInputs/Proof contract above.
	want := bindDigest(vk.Data, pi.digest())
	if len(proof.Bytes) != len(want) {
		return errs.ErrBadZkProof
	}
	for i := range want {
		if proof.Bytes[i] != want[i] {
			return errs.ErrBadZkProof
		}
	}
	return nil
}

// Prove produces a proof binding pi to the verifying key vkData, for use
// by reference/test tooling that stands in for a real circuit prover.
func Prove(vkData []byte, pi PublicInputs) Proof {
	id := sha256.Sum256(vkData)
	return Proof{VerifyingKeyID: id, Bytes: bindDigest(vkData, pi.digest())}
}

func bindDigest(vkData []byte, digest [32]byte) []byte {
	h := sha256.New()
	h.Write(vkData)
	h.Write(digest[:])
	return h.Sum(nil)
}
