// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/khash"
)

// HeaderDigest computes a block header's content digest: every field
// but Digest itself, domain-separated so it can never collide with a
// KHASH output computed for a different purpose.
func HeaderDigest(h forkchoice.Header) [32]byte {
	return khash.Hash(khash.LabelHeader,
		h.ParentHash[:],
		khash.LE64(h.Height),
		khash.LE64(h.Slot),
		khash.LE64(h.Epoch),
		h.Author[:],
		h.WeightsRoot[:],
	)
}

// epochSlotWindow returns the inclusive [min, max] slot range covered
// by epoch, given the configured epoch length.
func epochSlotWindow(epoch uint64, lengthSlots uint32) (min, max uint64) {
	min = epoch * uint64(lengthSlots)
	max = min + uint64(lengthSlots) - 1
	return min, max
}
