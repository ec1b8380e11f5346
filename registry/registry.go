// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the validator registry: a mapping from
// validator ID to {stake, active}. Mutated only by governance
// operations (bond/unbond/mark active/inactive) and by slashing; every
// mutation is atomic and failures leave state unchanged.
package registry

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/q32"
)

// ValidatorID is an opaque 32-byte identifier derived from a
// validator's long-term signature public key (see package validatorid).
type ValidatorID [32]byte

// Entry is a single validator's registry record.
type Entry struct {
	Stake  *uint256.Int
	Active bool
}

// Registry is the single-writer store of validator entries. It is
// safe for concurrent use: one writer at a time via mu, readers may
// take a read lock or call SnapshotStakes for a point-in-time copy.
type Registry struct {
	mu      sync.RWMutex
	entries map[ValidatorID]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[ValidatorID]*Entry)}
}

// Bond creates or tops up a validator's stake. A new entry starts
// active.
func (r *Registry) Bond(id ValidatorID, amount *uint256.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		r.entries[id] = &Entry{Stake: new(uint256.Int).Set(amount), Active: true}
		return
	}
	e.Stake.Add(e.Stake, amount)
}

// Unbond reduces a validator's stake by amount. It fails (leaving
// state unchanged) if amount exceeds the current stake. A validator
// whose stake reaches zero is removed entirely (full exit).
func (r *Registry) Unbond(id ValidatorID, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return errs.ErrInactive
	}
	if e.Stake.Cmp(amount) < 0 {
		return errs.ErrInsufficientBond
	}
	e.Stake.Sub(e.Stake, amount)
	if e.Stake.IsZero() {
		delete(r.entries, id)
	}
	return nil
}

// MarkInactive flips a validator's active flag off.
func (r *Registry) MarkInactive(id ValidatorID) error {
	return r.setActive(id, false)
}

// MarkActive flips a validator's active flag on.
func (r *Registry) MarkActive(id ValidatorID) error {
	return r.setActive(id, true)
}

func (r *Registry) setActive(id ValidatorID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return errs.ErrInactive
	}
	e.Active = active
	return nil
}

// Slash reduces a validator's stake by fraction_q (a Q32.32) atomically.
// fraction_q is clamped to [0, ONE] first: a zero fraction leaves the
// stake unchanged and a fraction above ONE slashes the whole stake. The
// only error is errs.ErrInactive, for an unknown validator.
func (r *Registry) Slash(id ValidatorID, fractionQ q32.Q) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return errs.ErrInactive
	}
	fractionQ = q32.Clamp01(fractionQ)

	// slashAmount = stake * fractionQ, computed without losing
	// precision on large stakes: multiply stake by the fixed-point
	// numerator in 256 bits, then shift right by 32 to drop the
	// fractional part.
	scaled := new(uint256.Int).Mul(e.Stake, uint256.NewInt(uint64(fractionQ)))
	slashAmount := scaled.Rsh(scaled, 32)
	e.Stake.Sub(e.Stake, slashAmount)
	return nil
}

// StakeOf returns a validator's current stake and whether it exists.
func (r *Registry) StakeOf(id ValidatorID) (*uint256.Int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return new(uint256.Int).Set(e.Stake), true
}

// IsActive reports whether a validator exists and is active.
func (r *Registry) IsActive(id ValidatorID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	return ok && e.Active
}

// StakeSnapshot is a point-in-time (id, stake) pair returned by
// SnapshotStakes.
type StakeSnapshot struct {
	ID    ValidatorID
	Stake *uint256.Int
}

// SnapshotStakes returns every active validator's current stake. The
// returned slice is unordered; callers that need determinism (e.g. the
// snapshot builder) must sort it themselves.
func (r *Registry) SnapshotStakes() []StakeSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]StakeSnapshot, 0, len(r.entries))
	for id, e := range r.entries {
		if !e.Active {
			continue
		}
		out = append(out, StakeSnapshot{ID: id, Stake: new(uint256.Int).Set(e.Stake)})
	}
	return out
}
