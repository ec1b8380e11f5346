// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payment

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/gtank/merlin"
	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/khash"
)

// HybridHint is the immutable, once-published envelope a sender
// produces and recipients scan for. Every field is exactly what
// spec.md §3 enumerates; SignedTranscript carries the sender's
// signature over the recomputable transcript, not the transcript
// bytes themselves (the wire name follows the spec's field list).
type HybridHint struct {
	KemCiphertext    []byte
	EphPub           [32]byte
	SignedTranscript []byte
	EncPayload       []byte
	Timestamp        uint64
	Epoch            uint64
}

// BuildParams bundles everything Build needs beyond the plaintext
// payload.
type BuildParams struct {
	Recipient *RecipientKeys
	Sender    *SenderIdentity
	COut      [32]byte
	Epoch     uint64
	Timestamp uint64
}

// Build assembles a hint carrying payload for Recipient, authenticated
// by Sender, per spec.md §4.11's derivation sequence.
func Build(p BuildParams, payload []byte) (*HybridHint, error) {
	scheme := mlkem768.Scheme()
	kemCt, ssKem, err := scheme.Encapsulate(p.Recipient.KEMPublic)
	if err != nil {
		return nil, err
	}

	ephSk, err := randomScalar(rand.Reader)
	if err != nil {
		return nil, err
	}
	ephPubElem := ristretto255.NewElement().ScalarBaseMult(ephSk)
	var ephPub [32]byte
	copy(ephPub[:], ephPubElem.Encode(nil))

	dh := ristretto255.NewElement().ScalarMult(ephSk, p.Recipient.ECDHPublic)
	dhBytes := dh.Encode(nil)

	senderPub, err := p.Sender.PublicKeyBytes()
	if err != nil {
		return nil, err
	}

	transcript := buildTranscript(p.COut, p.Epoch, p.Timestamp, kemCt, ephPub[:], senderPub)

	ssH := khash.XOF(khash.LabelHybrid, 32, ssKem, dhBytes, p.COut[:])
	key := khash.XOF(khash.LabelAeadKey, chacha20poly1305.KeySize, ssH)
	nonce := khash.XOF(khash.LabelAeadNonce, chacha20poly1305.NonceSizeX, ssH)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	encPayload := aead.Seal(nil, nonce, payload, transcript)

	sig := mldsa65.Scheme().Sign(p.Sender.Private, transcript, nil)

	return &HybridHint{
		KemCiphertext:    kemCt,
		EphPub:           ephPub,
		SignedTranscript: sig,
		EncPayload:       encPayload,
		Timestamp:        p.Timestamp,
		Epoch:            p.Epoch,
	}, nil
}

// VerifyParams bundles the recipient's private collaborators and the
// acceptance window used to check a scanned hint.
type VerifyParams struct {
	Recipient       *RecipientKeys
	SenderPublicKey []byte
	COut            [32]byte
	CurrentEpoch    uint64
	AcceptPrevEpoch bool
	Now             time.Time
	MaxSkew         time.Duration
}

// Verify recomputes the transcript, decapsulates, rederives the AEAD
// key/nonce, checks the signature, and decrypts h's payload. It
// returns the decoded plaintext on success.
func Verify(h *HybridHint, p VerifyParams) ([]byte, error) {
	if h.Epoch != p.CurrentEpoch {
		if !(p.AcceptPrevEpoch && p.CurrentEpoch > 0 && h.Epoch == p.CurrentEpoch-1) {
			return nil, errs.ErrWrongEpoch
		}
	}

	ts := time.Unix(int64(h.Timestamp), 0)
	if ts.Before(p.Now.Add(-p.MaxSkew)) || ts.After(p.Now.Add(p.MaxSkew)) {
		return nil, errs.ErrStaleTimestamp
	}

	senderPub, err := mldsa65.Scheme().UnmarshalBinaryPublicKey(p.SenderPublicKey)
	if err != nil {
		return nil, errs.ErrMalformedHint
	}

	transcript := buildTranscript(p.COut, h.Epoch, h.Timestamp, h.KemCiphertext, h.EphPub[:], p.SenderPublicKey)

	scheme := mlkem768.Scheme()
	ssKem, err := scheme.Decapsulate(p.Recipient.KEMPrivate, h.KemCiphertext)
	if err != nil {
		return nil, errs.ErrKemDecapsFailure
	}

	ephPubElem := ristretto255.NewElement()
	if err := ephPubElem.Decode(h.EphPub[:]); err != nil {
		return nil, errs.ErrMalformedHint
	}
	dh := ristretto255.NewElement().ScalarMult(p.Recipient.ECDHScalar, ephPubElem)
	dhBytes := dh.Encode(nil)

	ssH := khash.XOF(khash.LabelHybrid, 32, ssKem, dhBytes, p.COut[:])
	key := khash.XOF(khash.LabelAeadKey, chacha20poly1305.KeySize, ssH)
	nonce := khash.XOF(khash.LabelAeadNonce, chacha20poly1305.NonceSizeX, ssH)

	if !mldsa65.Scheme().Verify(senderPub, transcript, h.SignedTranscript, nil) {
		return nil, errs.ErrBadSignature
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	payload, err := aead.Open(nil, nonce, h.EncPayload, transcript)
	if err != nil {
		return nil, errs.ErrAeadDecryptFailure
	}
	return payload, nil
}

// Fingerprint16 computes the cheap pre-filter tag for a hint's
// recomputed transcript: a deterministic function recipients can
// precompute per candidate (sender, c_out) without running the full
// AEAD trial.
func Fingerprint16(cOut [32]byte, epoch, timestamp uint64, kemCt, ephPub, senderSigPub []byte) [16]byte {
	transcript := buildTranscript(cOut, epoch, timestamp, kemCt, ephPub, senderSigPub)
	var out [16]byte
	copy(out[:], khash.XOF(khash.LabelHintFP, 16, transcript))
	return out
}

// buildTranscript binds c_out, epoch, timestamp, kem_ct, eph_pub and the
// sender's signature public key into one 32-byte digest via a merlin
// transcript (enc_payload and the signature are not absorbed). Each
// field is absorbed with its own
// length-prefixed label, so there is no concatenation ambiguity
// between adjacent variable-length fields, and two implementations
// that absorb the same fields in the same order always arrive at the
// same digest.
func buildTranscript(cOut [32]byte, epoch, timestamp uint64, kemCt, ephPub, senderSigPub []byte) []byte {
	tr := merlin.NewTranscript("HINT.v1")
	tr.AppendMessage([]byte("c_out"), cOut[:])
	tr.AppendMessage([]byte("epoch"), le64(epoch))
	tr.AppendMessage([]byte("timestamp"), le64(timestamp))
	tr.AppendMessage([]byte("kem_ct"), kemCt)
	tr.AppendMessage([]byte("eph_pub"), ephPub)
	tr.AppendMessage([]byte("sender_sig_pubkey"), senderSigPub)
	return tr.ExtractBytes([]byte("HINT.transcript.v1"), 32)
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// Marshal encodes h per spec.md §6's wire layout:
// {kem_ct_len(u32 LE), kem_ct, eph_pub(32), sig_len(u32 LE),
// signed_transcript, payload_len(u32 LE), enc_payload, timestamp(u64 LE),
// epoch(u64 LE)}.
func Marshal(h *HybridHint) []byte {
	size := 4 + len(h.KemCiphertext) + 32 + 4 + len(h.SignedTranscript) + 4 + len(h.EncPayload) + 8 + 8
	buf := make([]byte, 0, size)
	buf = appendU32LP(buf, h.KemCiphertext)
	buf = append(buf, h.EphPub[:]...)
	buf = appendU32LP(buf, h.SignedTranscript)
	buf = appendU32LP(buf, h.EncPayload)
	buf = binary.LittleEndian.AppendUint64(buf, h.Timestamp)
	buf = binary.LittleEndian.AppendUint64(buf, h.Epoch)
	return buf
}

// Unmarshal decodes a hint from Marshal's wire layout. It returns
// errs.ErrMalformedHint on any structural inconsistency.
func Unmarshal(b []byte) (*HybridHint, error) {
	r := b
	kemCt, rest, err := readU32LP(r)
	if err != nil {
		return nil, err
	}
	r = rest
	if len(r) < 32 {
		return nil, errs.ErrMalformedHint
	}
	var ephPub [32]byte
	copy(ephPub[:], r[:32])
	r = r[32:]

	sig, rest, err := readU32LP(r)
	if err != nil {
		return nil, err
	}
	r = rest

	encPayload, rest, err := readU32LP(r)
	if err != nil {
		return nil, err
	}
	r = rest

	if len(r) < 16 {
		return nil, errs.ErrMalformedHint
	}
	timestamp := binary.LittleEndian.Uint64(r[:8])
	epoch := binary.LittleEndian.Uint64(r[8:16])

	return &HybridHint{
		KemCiphertext:    kemCt,
		EphPub:           ephPub,
		SignedTranscript: sig,
		EncPayload:       encPayload,
		Timestamp:        timestamp,
		Epoch:            epoch,
	}, nil
}

func appendU32LP(buf []byte, data []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func readU32LP(b []byte) (data, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, errs.ErrMalformedHint
	}
	n := binary.LittleEndian.Uint32(b[:4])
	b = b[4:]
	if uint64(len(b)) < uint64(n) {
		return nil, nil, errs.ErrMalformedHint
	}
	return b[:n], b[n:], nil
}
