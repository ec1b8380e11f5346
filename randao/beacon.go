// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package randao implements the per-epoch commit-reveal randomness
// accumulator (RANDAO): validators commit to a secret before the epoch
// begins, reveal it early in the epoch, and every accepted reveal mixes
// into an epoch seed from which every per-slot beacon value derives.
package randao

import (
	"sync"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/registry"
)

// EpochState is one epoch's commit-reveal accumulator.
type EpochState struct {
	mu        sync.RWMutex
	commits   map[registry.ValidatorID][32]byte
	reveals   map[registry.ValidatorID][32]byte
	seed      [32]byte
	finalized bool
}

// Beacon owns one EpochState per epoch still within the retention
// window; each EpochState is a single-writer resource.
type Beacon struct {
	mu     sync.RWMutex
	epochs map[uint64]*EpochState
}

// New returns an empty beacon.
func New() *Beacon {
	return &Beacon{epochs: make(map[uint64]*EpochState)}
}

// GenesisSeed is the seed used to bootstrap the first epoch, when
// there is no prior finalized seed to derive from.
var GenesisSeed = khash.Hash(khash.LabelRandaoMix, []byte("genesis"))

// StartEpoch opens the commit window for epoch, seeding it from the
// prior epoch's finalized seed (or GenesisSeed for the first epoch).
func (b *Beacon) StartEpoch(epoch uint64, priorSeed [32]byte) *EpochState {
	b.mu.Lock()
	defer b.mu.Unlock()

	es := &EpochState{
		commits: make(map[registry.ValidatorID][32]byte),
		reveals: make(map[registry.ValidatorID][32]byte),
		seed:    khash.Hash(khash.LabelRandaoMix, priorSeed[:]),
	}
	b.epochs[epoch] = es
	return es
}

// Epoch returns the state for epoch, if any.
func (b *Beacon) Epoch(epoch uint64) (*EpochState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	es, ok := b.epochs[epoch]
	return es, ok
}

// Evict drops the retained state for epoch, once it has fallen out of
// the retention window.
func (b *Beacon) Evict(epoch uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.epochs, epoch)
}

// Commit admits a commitment for id. The first accepted commit for a
// validator in an epoch is binding; later commits from the same
// validator are rejected (no last-writer-wins).
func (es *EpochState) Commit(id registry.ValidatorID, commit [32]byte) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.finalized {
		return errs.ErrWrongEpoch
	}
	if _, exists := es.commits[id]; exists {
		return ErrCommitAlreadyBound
	}
	es.commits[id] = commit
	return nil
}

// Reveal admits a secret for id iff it hashes to the validator's
// stored commitment, then mixes it into the epoch seed.
func (es *EpochState) Reveal(id registry.ValidatorID, secret [32]byte) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.finalized {
		return errs.ErrWrongEpoch
	}
	commit, ok := es.commits[id]
	if !ok {
		return ErrNoCommit
	}
	if _, already := es.reveals[id]; already {
		return ErrAlreadyRevealed
	}
	if khash.Hash(khash.LabelRandaoCommit, secret[:]) != commit {
		return ErrRevealMismatch
	}

	es.reveals[id] = secret
	es.seed = khash.Hash(khash.LabelRandaoMix, es.seed[:], id[:], secret[:])
	return nil
}

// Finalize closes the reveal window. After finalization, Commit and
// Reveal both fail and Seed/NoReveal become stable.
func (es *EpochState) Finalize() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.finalized = true
}

// Finalized reports whether the epoch's reveal window has closed.
func (es *EpochState) Finalized() bool {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.finalized
}

// Seed returns the current (or, once finalized, the final) epoch seed.
func (es *EpochState) Seed() [32]byte {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.seed
}

// NoReveal returns every validator that committed but never revealed,
// candidates for the no-reveal slash.
func (es *EpochState) NoReveal() []registry.ValidatorID {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var out []registry.ValidatorID
	for id := range es.commits {
		if _, ok := es.reveals[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// SlotValue computes the per-slot beacon value from a finalized epoch
// seed: a pure function of (epoch, slot, seed), so every verifier
// derives the identical value.
func SlotValue(epoch, slot uint64, seed [32]byte) [32]byte {
	return khash.Hash(khash.LabelRandaoSlot, khash.LE64(epoch), khash.LE64(slot), seed[:])
}
