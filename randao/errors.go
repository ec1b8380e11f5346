// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package randao

import "errors"

var (
	// ErrCommitAlreadyBound is returned when a validator attempts to
	// replace a commit already accepted this epoch.
	ErrCommitAlreadyBound = errors.New("randao: commit already bound for this epoch")

	// ErrNoCommit is returned when a reveal arrives with no matching
	// prior commit.
	ErrNoCommit = errors.New("randao: no commit on file")

	// ErrAlreadyRevealed is returned when a validator reveals twice.
	ErrAlreadyRevealed = errors.New("randao: already revealed")

	// ErrRevealMismatch is returned when a revealed secret does not
	// hash to the stored commitment.
	ErrRevealMismatch = errors.New("randao: reveal does not match commit")
)
