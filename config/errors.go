// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	ErrInvalidLambda             = errors.New("config: lambda_q must be in (0, ONE]")
	ErrInvalidMinBond             = errors.New("config: min_bond must be set")
	ErrTrustWeightsNotNormalized  = errors.New("config: trust beta weights must sum to ONE")
	ErrTrustFloorAboveInit        = errors.New("config: trust floor_q must not exceed init_q")
	ErrInvalidEpochLength         = errors.New("config: epoch_length_slots must be > 0")
	ErrInvalidSlashFraction       = errors.New("config: slash fractions must be in [0, ONE]")
)
