// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import "github.com/luxfi/potrust/khash"

// EmptyRoot is the Merkle root of a snapshot with no leaves.
func EmptyRoot() [32]byte {
	return khash.Hash(khash.LabelMerkleEmpty)
}

// leafHash computes the Merkle leaf for one (id, stake_q, trust_q)
// triple, per spec.md §3/§4.5.
func leafHash(id [32]byte, stakeQLE, trustQLE []byte) [32]byte {
	return khash.Hash(khash.LabelWeight, id[:], stakeQLE, trustQLE)
}

// parentHash combines two sibling nodes into their parent.
func parentHash(left, right [32]byte) [32]byte {
	return khash.Hash(khash.LabelMerkleParent, left[:], right[:])
}

// buildTree returns the full list of layers, leaves first, root last.
// A layer with an odd number of nodes is completed by duplicating its
// last node, per spec.md §4.5.
func buildTree(leaves [][32]byte) [][][32]byte {
	if len(leaves) == 0 {
		return [][][32]byte{{EmptyRoot()}}
	}

	layers := [][][32]byte{leaves}
	cur := leaves
	for len(cur) > 1 {
		var next [][32]byte
		for i := 0; i < len(cur); i += 2 {
			if i+1 < len(cur) {
				next = append(next, parentHash(cur[i], cur[i+1]))
			} else {
				next = append(next, parentHash(cur[i], cur[i]))
			}
		}
		layers = append(layers, next)
		cur = next
	}
	return layers
}

// proofFor returns the sibling path for the leaf at index, bottom to
// top, matching the orientation bits implied by index at each level.
func proofFor(layers [][][32]byte, index int) [][32]byte {
	var path [][32]byte
	for level := 0; level < len(layers)-1; level++ {
		layer := layers[level]
		siblingIdx := index ^ 1
		if siblingIdx >= len(layer) {
			siblingIdx = index // duplicated last node
		}
		path = append(path, layer[siblingIdx])
		index /= 2
	}
	return path
}

// VerifyPath recomputes the root from leaf, walking path with the
// orientation bit at each level taken from index, and reports whether
// it equals root.
func VerifyPath(leaf [32]byte, index uint64, path [][32]byte, root [32]byte) bool {
	cur := leaf
	idx := index
	for _, sibling := range path {
		if idx&1 == 0 {
			cur = parentHash(cur, sibling)
		} else {
			cur = parentHash(sibling, cur)
		}
		idx >>= 1
	}
	return cur == root
}
