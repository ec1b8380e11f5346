// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validatorid derives a validator's opaque identifier from
// its long-term classical signing key and signs/verifies block
// headers with it. This is the classical, non-post-quantum identity
// used to author blocks; the post-quantum KEM/signature keys used by
// package payment are a separate, unrelated keypair per spec.md
// §4.11's strict role separation.
package validatorid

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/khash"
	"github.com/luxfi/potrust/registry"
)

// Identity is a validator's long-term secp256k1 keypair.
type Identity struct {
	priv *secp256k1.PrivateKey
	pub  *secp256k1.PublicKey
}

// Generate creates a fresh identity.
func Generate() (*Identity, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &Identity{priv: priv, pub: priv.PubKey()}, nil
}

// FromPrivateKeyBytes reconstructs an identity from a raw 32-byte
// scalar, e.g. when loading a validator key from configuration.
func FromPrivateKeyBytes(b []byte) (*Identity, error) {
	priv := secp256k1.PrivKeyFromBytes(b)
	return &Identity{priv: priv, pub: priv.PubKey()}, nil
}

// ID returns the ValidatorID derived from this identity's public key:
// KHASH("VID.v1", pubkey_compressed).
func (id *Identity) ID() registry.ValidatorID {
	return IDFromPublicKey(id.pub)
}

// PublicKeyBytes returns the compressed public key.
func (id *Identity) PublicKeyBytes() []byte {
	return id.pub.SerializeCompressed()
}

// PrivateKeyBytes returns the raw 32-byte scalar, for persisting an
// identity to configuration.
func (id *Identity) PrivateKeyBytes() []byte {
	return id.priv.Serialize()
}

// Sign produces a deterministic ECDSA signature over digest, which
// callers compute as the hash of a block header.
func (id *Identity) Sign(digest [32]byte) []byte {
	sig := ecdsa.Sign(id.priv, digest[:])
	return sig.Serialize()
}

// IDFromPublicKey derives a ValidatorID from a compressed public key,
// the same derivation Identity.ID uses, for verifiers that only hold
// the public key.
func IDFromPublicKey(pub *secp256k1.PublicKey) registry.ValidatorID {
	return khash.Hash(khash.LabelValidatorID, pub.SerializeCompressed())
}

// VerifyHeaderSignature checks that sig is a valid signature over
// digest by the holder of pubKeyBytes (compressed secp256k1 point),
// and that the derived ValidatorID matches who.
func VerifyHeaderSignature(who registry.ValidatorID, pubKeyBytes []byte, digest [32]byte, sig []byte) error {
	pub, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return errs.ErrBadSignature
	}
	if IDFromPublicKey(pub) != who {
		return errs.ErrBadSignature
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return errs.ErrBadSignature
	}
	if !parsed.Verify(digest[:], pub) {
		return errs.ErrBadSignature
	}
	return nil
}
