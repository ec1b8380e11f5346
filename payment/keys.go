// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package payment implements the private-payment hint envelope of
// spec.md §4.11: a hybrid post-quantum KEM, a classical ECDH
// contribution, a long-term signature, and an AEAD, each used for
// exactly one role and never substituted for another.
package payment

import (
	"crypto/rand"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/gtank/ristretto255"
)

// RecipientKeys is the long-term keypair a recipient publishes:
// a KEM keypair for shared-secret encapsulation, and an ECDH keypair
// for the classical defense-in-depth contribution. Never used for
// signing.
type RecipientKeys struct {
	KEMPublic   kem.PublicKey
	KEMPrivate  kem.PrivateKey
	ECDHScalar  *ristretto255.Scalar
	ECDHPublic  *ristretto255.Element
}

// GenerateRecipientKeys creates a fresh recipient keypair.
func GenerateRecipientKeys() (*RecipientKeys, error) {
	scheme := mlkem768.Scheme()
	pub, priv, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	scalar, err := randomScalar(rand.Reader)
	if err != nil {
		return nil, err
	}
	ecdhPub := ristretto255.NewElement().ScalarBaseMult(scalar)

	return &RecipientKeys{
		KEMPublic:  pub,
		KEMPrivate: priv,
		ECDHScalar: scalar,
		ECDHPublic: ecdhPub,
	}, nil
}

// ECDHPublicBytes returns the recipient's ECDH contribution encoded as
// a compressed ristretto255 point.
func (r *RecipientKeys) ECDHPublicBytes() []byte {
	return r.ECDHPublic.Encode(nil)
}

// KEMPublicBytes returns the recipient's KEM public key, marshaled for
// publication.
func (r *RecipientKeys) KEMPublicBytes() ([]byte, error) {
	return r.KEMPublic.MarshalBinary()
}

// SenderIdentity is a sender's long-term signature keypair, used
// solely to authenticate a hint's transcript. It must never be reused
// for key agreement.
type SenderIdentity struct {
	Public  sign.PublicKey
	Private sign.PrivateKey
}

// GenerateSenderIdentity creates a fresh signature keypair.
func GenerateSenderIdentity() (*SenderIdentity, error) {
	scheme := mldsa65.Scheme()
	pub, priv, err := scheme.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &SenderIdentity{Public: pub, Private: priv}, nil
}

// PublicKeyBytes returns the sender's signing public key, marshaled
// for inclusion in the transcript.
func (s *SenderIdentity) PublicKeyBytes() ([]byte, error) {
	return s.Public.MarshalBinary()
}

func randomScalar(rnd io.Reader) (*ristretto255.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return nil, err
	}
	return ristretto255.NewScalar().SetUniformBytes(buf[:]), nil
}
