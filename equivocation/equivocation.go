// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package equivocation detects a validator signing two distinct
// headers for the same slot and applies the spec.md §4.10 penalty:
// trust reset to the floor, an atomic stake slash, and ejection from
// the current epoch's eligibility.
package equivocation

import (
	"sync"

	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

// Evidence is a reproducible equivocation proof: two distinct header
// digests signed by the same validator for the same slot. Any node
// can verify it independently given the two signed headers.
type Evidence struct {
	Validator registry.ValidatorID
	Slot      uint64
	DigestA   [32]byte
	DigestB   [32]byte
}

type slotKey struct {
	validator registry.ValidatorID
	slot      uint64
}

// Detector tracks the first observed header digest per (validator,
// slot) and flags a second, distinct digest as equivocation.
type Detector struct {
	mu    sync.Mutex
	first map[slotKey][32]byte
}

// NewDetector returns an empty detector.
func NewDetector() *Detector {
	return &Detector{first: make(map[slotKey][32]byte)}
}

// Observe records digest as the header signed by validator for slot.
// If a different digest was already recorded for that (validator,
// slot), it returns evidence of equivocation; otherwise nil.
func (d *Detector) Observe(validator registry.ValidatorID, slot uint64, digest [32]byte) *Evidence {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := slotKey{validator: validator, slot: slot}
	prior, seen := d.first[key]
	if !seen {
		d.first[key] = digest
		return nil
	}
	if prior == digest {
		return nil
	}
	return &Evidence{Validator: validator, Slot: slot, DigestA: prior, DigestB: digest}
}

// Effects bundles the collaborators mutated when evidence is applied.
type Effects struct {
	Registry    *registry.Registry
	TrustFloor  q32.Q
	SlashFrac   q32.Q
	SetTrust    func(id registry.ValidatorID, trustQ q32.Q)
	EjectFromEpoch func(id registry.ValidatorID)
}

// Apply enacts the penalty for ev atomically with respect to each
// collaborator: reset trust to the floor, slash stake, mark inactive
// for the current epoch, and eject from this epoch's eligibility.
func Apply(ev *Evidence, eff Effects) error {
	if eff.SetTrust != nil {
		eff.SetTrust(ev.Validator, eff.TrustFloor)
	}
	if err := eff.Registry.Slash(ev.Validator, eff.SlashFrac); err != nil {
		return err
	}
	if eff.EjectFromEpoch != nil {
		eff.EjectFromEpoch(ev.Validator)
	}
	return nil
}
