// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package snapshot builds and verifies epoch snapshots: ordered,
// Merkle-committed leaf sets of (validator, stake_q, trust_q) frozen at
// each epoch boundary, per spec.md §3/§4.5.
package snapshot

import (
	"bytes"
	"sort"

	"github.com/holiman/uint256"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
)

// Snapshot is an immutable, ordered leaf set frozen at an epoch
// boundary. Once constructed it is shared read-only for its entire
// retention window.
type Snapshot struct {
	Epoch        uint64
	Order        []registry.ValidatorID
	StakeQ       []q32.Q
	TrustQ       []q32.Q
	SumWeightsQ  *uint256.Int
	WeightsRoot  [32]byte

	layers [][][32]byte // retained to hand out Merkle proofs
}

// TrustSource supplies each validator's current trust score; it is
// satisfied by *trust.State.
type TrustSource interface {
	TrustOf(id registry.ValidatorID) q32.Q
}

// Build collects every active registry entry meeting minBond, computes
// each validator's normalized stake_q and current trust_q, sorts by
// validator ID, and commits the result into a Merkle tree.
func Build(epoch uint64, stakes []registry.StakeSnapshot, trustSrc TrustSource, minBond *uint256.Int) (*Snapshot, error) {
	eligible := make([]registry.StakeSnapshot, 0, len(stakes))
	var totalStake uint256.Int
	for _, s := range stakes {
		if s.Stake.Cmp(minBond) < 0 {
			continue
		}
		eligible = append(eligible, s)
		totalStake.Add(&totalStake, s.Stake)
	}

	sort.Slice(eligible, func(i, j int) bool {
		return bytes.Compare(eligible[i].ID[:], eligible[j].ID[:]) < 0
	})

	n := len(eligible)
	order := make([]registry.ValidatorID, n)
	stakeQ := make([]q32.Q, n)
	trustQ := make([]q32.Q, n)
	leaves := make([][32]byte, n)

	sumWeights := new(uint256.Int)
	for i, s := range eligible {
		order[i] = s.ID

		var sq q32.Q
		if !totalStake.IsZero() {
			var err error
			// totalStake may exceed a single uint64; widen through
			// the ratio of two uint256 values instead of q32.FromRatio.
			sq, err = ratioQ(s.Stake, &totalStake)
			if err != nil {
				return nil, err
			}
		}
		stakeQ[i] = sq
		trustQ[i] = trustSrc.TrustOf(s.ID)

		leaves[i] = leafHash(s.ID, khash.LE64(uint64(stakeQ[i])), khash.LE64(uint64(trustQ[i])))

		// sum_weights_q accumulates Σ qmul(stake_q[i], trust_q[i]) in a
		// u128-equivalent accumulator so it never overflows even across
		// an unrealistically large validator set (spec.md §4.5).
		term := q32.Mul(stakeQ[i], trustQ[i])
		sumWeights.Add(sumWeights, uint256.NewInt(uint64(term)))
	}

	layers := buildTree(leaves)
	root := EmptyRoot()
	if n > 0 {
		root = layers[len(layers)-1][0]
	}

	return &Snapshot{
		Epoch:       epoch,
		Order:       order,
		StakeQ:      stakeQ,
		TrustQ:      trustQ,
		SumWeightsQ: sumWeights,
		WeightsRoot: root,
		layers:      layers,
	}, nil
}

// ratioQ computes num/den as a Q32.32 value where num and den are
// u128-scale amounts that may not fit in a uint64.
func ratioQ(num, den *uint256.Int) (q32.Q, error) {
	if den.IsZero() {
		return 0, errs.ErrStorageError
	}
	scaled := new(uint256.Int).Lsh(num, 32)
	q := new(uint256.Int).Div(scaled, den)
	return q32.Q(q.Uint64()), nil
}

// IndexOf returns the position of id in the snapshot's order, or -1.
func (s *Snapshot) IndexOf(id registry.ValidatorID) int {
	for i, v := range s.Order {
		if v == id {
			return i
		}
	}
	return -1
}

// ProofFor returns the Merkle path for the validator at index i.
func (s *Snapshot) ProofFor(i int) [][32]byte {
	return proofFor(s.layers, i)
}

// VerifyLeaf recomputes the leaf for (id, stakeQ, trustQ) and checks it
// against the snapshot's weights root using the given index and path.
func VerifyLeaf(root [32]byte, id registry.ValidatorID, stakeQ, trustQ q32.Q, index uint64, path [][32]byte) bool {
	leaf := leafHash(id, khash.LE64(uint64(stakeQ)), khash.LE64(uint64(trustQ)))
	return VerifyPath(leaf, index, path, root)
}
