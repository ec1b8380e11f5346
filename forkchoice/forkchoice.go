// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package forkchoice implements the accepted-block DAG and head
// selection described in spec.md §4.9: nodes are addressed by index
// into an arena slice rather than by pointer, so the tree never forms
// reference cycles and can be walked/serialized cheaply. An orphan
// pool holds blocks whose parent has not yet arrived.
package forkchoice

import (
	"bytes"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// Header carries the consensus-relevant fields of a block, per
// spec.md §3's Block definition.
type Header struct {
	ParentHash [32]byte
	Digest     [32]byte
	Height     uint64
	Slot       uint64
	Epoch      uint64
	Author     [32]byte
	WeightsRoot [32]byte
}

// node is one arena-addressed fork-tree entry.
type node struct {
	header     Header
	blockWeight uint64
	cumWeight  uint256.Int
	parent     int // index into tree.nodes, -1 for the root
	children   []int
}

// Tree is the single-writer accepted-block DAG.
type Tree struct {
	mu       sync.RWMutex
	nodes    []node
	byDigest map[[32]byte]int
	head     int // index of the current head
}

// NewTree seeds the tree with a genesis header carrying zero weight.
func NewTree(genesis Header) *Tree {
	t := &Tree{byDigest: make(map[[32]byte]int)}
	t.nodes = append(t.nodes, node{header: genesis, parent: -1})
	t.byDigest[genesis.Digest] = 0
	t.head = 0
	return t
}

// Insert admits a block whose parent is already present, accumulating
// cum_weight = parent.cum_weight + blockWeight, and reevaluates head.
// Returns false if the parent is unknown (caller should route the
// block to the orphan pool instead).
func (t *Tree) Insert(h Header, blockWeight uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	parentIdx, ok := t.byDigest[h.ParentHash]
	if !ok {
		return false
	}
	if _, exists := t.byDigest[h.Digest]; exists {
		return true // already accepted, idempotent
	}

	cum := t.nodes[parentIdx].cumWeight
	cum.Add(&cum, uint256.NewInt(blockWeight))

	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{
		header:      h,
		blockWeight: blockWeight,
		cumWeight:   cum,
		parent:      parentIdx,
	})
	t.nodes[parentIdx].children = append(t.nodes[parentIdx].children, idx)
	t.byDigest[h.Digest] = idx

	t.recomputeHead()
	return true
}

// recomputeHead scans every leaf and picks the one maximizing
// cum_weight; ties broken by lower height, then smaller header digest.
// Called with mu held.
func (t *Tree) recomputeHead() {
	best := 0
	for i := 1; i < len(t.nodes); i++ {
		if len(t.nodes[i].children) > 0 {
			continue // only leaves compete for head
		}
		if t.betterHead(i, best) {
			best = i
		}
	}
	t.head = best
}

func (t *Tree) betterHead(a, b int) bool {
	na, nb := &t.nodes[a], &t.nodes[b]
	if c := na.cumWeight.Cmp(&nb.cumWeight); c != 0 {
		return c > 0
	}
	if na.header.Height != nb.header.Height {
		return na.header.Height < nb.header.Height
	}
	return bytes.Compare(na.header.Digest[:], nb.header.Digest[:]) < 0
}

// Head returns the current canonical head header.
func (t *Tree) Head() Header {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.head].header
}

// CumWeight returns the cumulative weight recorded for digest, if
// known.
func (t *Tree) CumWeight(digest [32]byte) (*uint256.Int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx, ok := t.byDigest[digest]
	if !ok {
		return nil, false
	}
	return new(uint256.Int).Set(&t.nodes[idx].cumWeight), true
}

// CanonicalChain walks from the current head back to genesis,
// returning headers in root-to-head order, for replaying trust
// samples over the accepted history at epoch boundaries.
func (t *Tree) CanonicalChain() []Header {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var rev []Header
	for i := t.head; i != -1; i = t.nodes[i].parent {
		rev = append(rev, t.nodes[i].header)
	}
	out := make([]Header, len(rev))
	for i, h := range rev {
		out[len(rev)-1-i] = h
	}
	return out
}

// Known reports whether digest has been accepted into the tree.
func (t *Tree) Known(digest [32]byte) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byDigest[digest]
	return ok
}

// Orphan is a block held pending its parent's arrival.
type Orphan struct {
	Header      Header
	BlockWeight uint64
	ReceivedAt  time.Time
}

// OrphanPool holds blocks keyed by their missing parent hash.
type OrphanPool struct {
	mu      sync.Mutex
	byParent map[[32]byte][]Orphan
	maxAge  time.Duration
}

// NewOrphanPool returns an empty pool that evicts entries older than
// maxAge on each Sweep.
func NewOrphanPool(maxAge time.Duration) *OrphanPool {
	return &OrphanPool{byParent: make(map[[32]byte][]Orphan), maxAge: maxAge}
}

// Add stores an orphan awaiting its parent.
func (p *OrphanPool) Add(h Header, blockWeight uint64, receivedAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byParent[h.ParentHash] = append(p.byParent[h.ParentHash], Orphan{Header: h, BlockWeight: blockWeight, ReceivedAt: receivedAt})
}

// Adopt removes and returns every orphan waiting on parentDigest, in
// the order they were received, for the caller to feed into Tree.Insert.
func (p *OrphanPool) Adopt(parentDigest [32]byte) []Orphan {
	p.mu.Lock()
	defer p.mu.Unlock()
	waiting := p.byParent[parentDigest]
	delete(p.byParent, parentDigest)
	return waiting
}

// Sweep evicts every orphan received before now-maxAge.
func (p *OrphanPool) Sweep(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := now.Add(-p.maxAge)
	for parent, orphans := range p.byParent {
		kept := orphans[:0]
		for _, o := range orphans {
			if o.ReceivedAt.After(cutoff) {
				kept = append(kept, o)
			}
		}
		if len(kept) == 0 {
			delete(p.byParent, parent)
		} else {
			p.byParent[parent] = kept
		}
	}
}
