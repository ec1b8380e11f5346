// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package khash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain2(t *testing.T) {
	InitForTest([32]byte{1, 2, 3})
}

func TestHashDeterministic(t *testing.T) {
	InitForTest([32]byte{0xAA})
	a := Hash(LabelWeight, []byte("x"), []byte("y"))
	b := Hash(LabelWeight, []byte("x"), []byte("y"))
	require.Equal(t, a, b)
}

func TestHashLabelSeparation(t *testing.T) {
	InitForTest([32]byte{0xAA})
	a := Hash(LabelWeight, []byte("x"))
	b := Hash(LabelMerkleParent, []byte("x"))
	require.NotEqual(t, a, b)
}

func TestHashLengthPrefixAvoidsAmbiguity(t *testing.T) {
	InitForTest([32]byte{0xBB})
	a := Hash(LabelHint, []byte("ab"), []byte("c"))
	b := Hash(LabelHint, []byte("a"), []byte("bc"))
	require.NotEqual(t, a, b)
}

func TestXOFArbitraryLength(t *testing.T) {
	InitForTest([32]byte{0xCC})
	out := XOF(LabelHybrid, 64, []byte("ss"))
	require.Len(t, out, 64)
}

func TestUint64FromBE(t *testing.T) {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 1, 0xFF}
	require.Equal(t, uint64(1), Uint64FromBE(b))
}

func TestInitPanicsTwice(t *testing.T) {
	keyMu.Lock()
	keySet = false
	keyMu.Unlock()
	Init([32]byte{1})
	require.Panics(t, func() { Init([32]byte{2}) })
}
