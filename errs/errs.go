// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errs collects the sentinel error kinds shared by every
// consensus-facing package. Verification functions never panic on
// adversary-controlled input; they return one of these instead.
package errs

import "errors"

var (
	// ErrBadMerklePath is returned when a witness's Merkle path does not
	// reconstruct the snapshot's weights root.
	ErrBadMerklePath = errors.New("bad merkle path")

	// ErrNotEligible is returned when a validator's sortition draw did
	// not clear the eligibility bound.
	ErrNotEligible = errors.New("not eligible")

	// ErrWrongEpoch is returned when a witness targets a different epoch
	// than the one being verified against.
	ErrWrongEpoch = errors.New("wrong epoch")

	// ErrInactive is returned when the validator is not active in the
	// registry, or has been ejected for equivocation.
	ErrInactive = errors.New("validator inactive")

	// ErrInsufficientBond is returned when stake is below the minimum
	// bond required for eligibility.
	ErrInsufficientBond = errors.New("insufficient bond")

	// ErrEquivocationDetected is returned when two distinct signed
	// headers are observed for the same (validator, slot).
	ErrEquivocationDetected = errors.New("equivocation detected")

	// ErrStaleTimestamp is returned when a hint's timestamp falls
	// outside the accepted skew window.
	ErrStaleTimestamp = errors.New("stale timestamp")

	// ErrKemDecapsFailure is returned when KEM decapsulation fails.
	ErrKemDecapsFailure = errors.New("kem decapsulation failure")

	// ErrBadSignature is returned when a signature fails verification.
	ErrBadSignature = errors.New("bad signature")

	// ErrAeadDecryptFailure is returned when AEAD decryption/authentication
	// fails.
	ErrAeadDecryptFailure = errors.New("aead decrypt failure")

	// ErrMalformedHint is returned when a hint fails structural validation
	// before any cryptographic check is attempted.
	ErrMalformedHint = errors.New("malformed hint")

	// ErrBadZkProof is returned when the succinct witness variant fails
	// verification.
	ErrBadZkProof = errors.New("bad zk proof")

	// ErrVouchExceedsVoucherTrust is returned when a vouch's strength
	// exceeds the voucher's trust score at admission time.
	ErrVouchExceedsVoucherTrust = errors.New("vouch exceeds voucher trust")

	// ErrStorageError wraps failures surfaced by the storage collaborator.
	ErrStorageError = errors.New("storage error")

	// ErrCancelled is returned when a cooperative cancellation signal
	// fired before a verification completed.
	ErrCancelled = errors.New("cancelled")
)
