// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package netmsg defines the typed inbound message union the engine's
// network loop consumes, and the outbound broadcast primitive it
// drives. Per spec.md §6, messages carry no implicit trust: every
// field is re-verified by the consuming package regardless of which
// peer relayed it.
package netmsg

import (
	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/payment"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/witness"
	"github.com/luxfi/potrust/witness/zk"
)

// Kind discriminates the inbound message union.
type Kind int

const (
	KindBlock Kind = iota
	KindRandaoCommit
	KindRandaoReveal
	KindHint
	KindTx
)

// Block is the wire form of an authored block: a header, its witness,
// and the author's signature over the header digest. ZkProof is set
// instead of carrying a Merkle path in Witness when the deployment
// runs with config.Parameters.ZkRequired; nil for the classical path.
type Block struct {
	Header    forkchoice.Header
	Witness   witness.LeaderWitness
	ZkProof   *zk.Proof
	AuthorSig []byte
	AuthorPub []byte
	Body      []byte
}

// RandaoCommit is one validator's commitment for an upcoming epoch.
type RandaoCommit struct {
	Epoch  uint64
	Who    registry.ValidatorID
	Commit [32]byte
}

// RandaoReveal is one validator's revealed secret for an epoch already
// in its commit window.
type RandaoReveal struct {
	Epoch  uint64
	Who    registry.ValidatorID
	Secret [32]byte
}

// Hint carries a scanned private-payment envelope plus the sender
// public key recipients need to recompute its transcript.
type Hint struct {
	Envelope        payment.HybridHint
	SenderPublicKey []byte
}

// Tx is an opaque, application-defined transaction body; the
// consensus core neither interprets nor validates its contents beyond
// carrying it inside a block body.
type Tx struct {
	Body []byte
}

// Inbound is the typed union of every message the network loop can
// deliver. Exactly one of the typed fields is non-nil, selected by
// Kind.
type Inbound struct {
	Kind         Kind
	Block        *Block
	RandaoCommit *RandaoCommit
	RandaoReveal *RandaoReveal
	Hint         *Hint
	Tx           *Tx
}

// Outbound is the best-effort broadcast primitive the engine drives
// after producing or relaying a message; it never blocks on peer
// acknowledgement.
type Outbound interface {
	Broadcast(msg Inbound) error
}
