// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package khash implements the domain-separated keyed hash (KHASH) used
// throughout the consensus core. A fixed process-wide key domain-separates
// this deployment from any other use of the same construction; a
// per-operation label further separates every distinct semantic
// operation. Built over a SHA3-family XOF (SHAKE256) so that arbitrary
// output lengths are cheap and the construction never needs a second
// primitive for "extendable output".
package khash

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/sha3"
)

// processKey is the fixed, process-wide key that domain-separates this
// deployment of KHASH from any other. It is initialized once at
// startup via Init and treated as read-only shared state thereafter,
// matching the "global mutable state" guidance of the design notes:
// initialized once, then never mutated.
var (
	keyMu      sync.RWMutex
	processKey [32]byte
	keySet     bool
)

// Init sets the process-wide key. It must be called exactly once,
// before any KHASH operation, typically at node startup from
// configuration. Calling it again is a programmer error and panics,
// since a key change mid-process would silently desynchronize every
// node that has already derived state from the old key.
func Init(key [32]byte) {
	keyMu.Lock()
	defer keyMu.Unlock()
	if keySet {
		panic("khash: Init called more than once")
	}
	processKey = key
	keySet = true
}

// InitForTest sets the process-wide key unconditionally, for use by
// test packages that need a deterministic key without caring about the
// single-call invariant enforced by Init.
func InitForTest(key [32]byte) {
	keyMu.Lock()
	defer keyMu.Unlock()
	processKey = key
	keySet = true
}

func currentKey() [32]byte {
	keyMu.RLock()
	defer keyMu.RUnlock()
	return processKey
}

// Label is one of the enumerated domain-separation labels below. Every
// distinct semantic operation in the consensus core uses a distinct
// label; never reuse a label for two different meanings.
type Label string

// Enumerated labels. Keep this the single source of truth: adding a
// new KHASH-backed operation means adding a label here first.
const (
	LabelWeight        Label = "WGT.v1"
	LabelMerkleParent  Label = "MRK.v1"
	LabelMerkleEmpty   Label = "MRK.empty.v1"
	LabelEligibility   Label = "ELIG.v1"
	LabelRandaoCommit  Label = "RANDAO.commit.v1"
	LabelRandaoSlot    Label = "RANDAO.slot.v1"
	LabelRandaoMix     Label = "RANDAO.mix.v1"
	LabelHint          Label = "HINT.v1"
	LabelHintFP        Label = "HINT.FP.v1"
	LabelHybrid        Label = "HYBRID"
	LabelAeadKey       Label = "AEAD.key"
	LabelAeadNonce     Label = "AEAD.nonce"
	LabelValidatorID   Label = "VID.v1"
	LabelHeader        Label = "HDR.v1"
)

// Hash returns a 32-byte domain-separated tag over label and parts.
func Hash(label Label, parts ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], XOF(label, 32, parts...))
	return out
}

// XOF returns an outLen-byte domain-separated output over label and
// parts, squeezed from a SHAKE256 sponge.
//
// The sponge is fed, in order: the fixed process key, a length-prefixed
// label, and each length-prefixed part. Length-prefixing every input
// prevents ambiguity between e.g. khash(label, "ab", "c") and
// khash(label, "a", "bc").
func XOF(label Label, outLen int, parts ...[]byte) []byte {
	h := sha3.NewShake256()
	key := currentKey()
	writeLP(h, key[:])
	writeLP(h, []byte(label))
	for _, p := range parts {
		writeLP(h, p)
	}
	out := make([]byte, outLen)
	_, _ = h.Read(out)
	return out
}

func writeLP(h sha3.ShakeHash, b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	_, _ = h.Write(lenBuf[:])
	_, _ = h.Write(b)
}

// LE64 little-endian-encodes v, for use as a khash input part.
func LE64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// Uint64FromBE reinterprets the first 8 bytes of b as a big-endian
// uint64, as used by the sortition draw (spec: "ELIG.v1" output read
// big-endian to compare against a threshold bound).
func Uint64FromBE(b []byte) uint64 {
	return binary.BigEndian.Uint64(b[:8])
}
