// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkchoice

import "github.com/holiman/uint256"

// Debug exposes diagnostics never consulted by acceptance-path logic;
// tools and tests reach for it directly rather than through Tree's
// normal API.
var Debug debugNamespace

type debugNamespace struct{}

// WeightHistogram buckets every known node's cumulative weight into
// buckets equal-width bins spanning [0, max cum_weight] seen in t, the
// same cumulative-weight walk utils/sampler's weighted-without-
// replacement sampler uses to place a draw among cumulative bucket
// boundaries. It is a tie-break diagnostic only; head selection never
// consults it.
func (debugNamespace) WeightHistogram(t *Tree, buckets int) []int {
	if buckets <= 0 {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	hist := make([]int, buckets)
	if len(t.nodes) == 0 {
		return hist
	}

	maxWeight := t.nodes[0].cumWeight
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].cumWeight.Cmp(&maxWeight) > 0 {
			maxWeight = t.nodes[i].cumWeight
		}
	}
	if maxWeight.IsZero() {
		hist[0] = len(t.nodes)
		return hist
	}

	maxF := weightToFloat(&maxWeight)
	for i := range t.nodes {
		frac := weightToFloat(&t.nodes[i].cumWeight) / maxF
		bucket := int(frac * float64(buckets))
		if bucket >= buckets {
			bucket = buckets - 1
		}
		hist[bucket]++
	}
	return hist
}

// weightToFloat approximates w as a float64 for bucketing purposes
// only. cumWeight is a sum of per-block tie-break weights (each at
// most math.MaxUint64), so on any chain short enough to matter for a
// diagnostic histogram Uint64 returns the exact value; for a chain
// long enough to overflow 64 bits this degrades to the low 64 bits,
// which is acceptable since WeightHistogram is never consulted by
// acceptance-path logic.
func weightToFloat(w *uint256.Int) float64 {
	return float64(w.Uint64())
}
