// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trust

import (
	"sync"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

// Vouch is one validator's endorsement of another, bounded by the
// voucher's own trust at the time the vouch is recorded.
type Vouch struct {
	Voucher      registry.ValidatorID
	Vouchee      registry.ValidatorID
	StrengthQ    q32.Q
	CreatedEpoch uint64
}

type vouchKey struct {
	voucher registry.ValidatorID
	vouchee registry.ValidatorID
}

// vouchGraph stores the most recently admitted vouch for every
// (voucher, vouchee) pair. A voucher may update their own vouch, but
// each update is re-validated against the voucher's trust at vouch
// time; nothing here ever lets a voucher's outgoing strength exceed
// their own current trust score.
type vouchGraph struct {
	mu     sync.RWMutex
	byPair map[vouchKey]Vouch
}

func newVouchGraph() *vouchGraph {
	return &vouchGraph{byPair: make(map[vouchKey]Vouch)}
}

// Record admits a vouch into the graph, following spec.md §4.4's
// admission rule: strength <= trust(voucher) at vote time.
func (s *State) RecordVouch(v Vouch) error {
	s.mu.RLock()
	voucherTrust := s.trustOfLocked(v.Voucher)
	s.mu.RUnlock()

	if v.StrengthQ > voucherTrust {
		return errs.ErrVouchExceedsVoucherTrust
	}

	s.vouches.mu.Lock()
	defer s.vouches.mu.Unlock()
	s.vouches.byPair[vouchKey{voucher: v.Voucher, vouchee: v.Vouchee}] = v
	return nil
}

// aggregate computes V(vouchee) = clamp01(sum over vouchers j of
// trust(j) * strength(j->vouchee)), per spec.md §4.4. trustOf supplies
// each voucher's current trust; it must already hold whatever lock the
// caller needs (aggregate itself does not touch State.mu).
func (g *vouchGraph) aggregate(vouchee registry.ValidatorID, trustOf func(registry.ValidatorID) q32.Q) q32.Q {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var total q32.Q
	for key, v := range g.byPair {
		if key.vouchee != vouchee {
			continue
		}
		contribution := q32.Mul(trustOf(key.voucher), v.StrengthQ)
		total = q32.Add(total, contribution)
	}
	return q32.Clamp01(total)
}

// VouchStrength returns the currently recorded strength from voucher
// to vouchee, or 0 if none exists.
func (s *State) VouchStrength(voucher, vouchee registry.ValidatorID) q32.Q {
	s.vouches.mu.RLock()
	defer s.vouches.mu.RUnlock()
	v, ok := s.vouches.byPair[vouchKey{voucher: voucher, vouchee: vouchee}]
	if !ok {
		return 0
	}
	return v.StrengthQ
}

// AggregateVouch exposes V(vouchee) for callers (tests, diagnostics)
// that need it outside of an Update pass.
func (s *State) AggregateVouch(vouchee registry.ValidatorID) q32.Q {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vouches.aggregate(vouchee, s.trustOfLocked)
}
