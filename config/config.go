// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config enumerates every consensus tunable of spec.md §6 in
// one Parameters struct, with preset constructors mirroring the
// teacher's Default/Mainnet/Testnet/Local split and a Validate method
// that rejects an inconsistent configuration before it reaches the
// engine.
package config

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/trust"
)

// Parameters bundles every tunable the consensus core reads.
type Parameters struct {
	LambdaQ q32.Q // sortition rate
	MinBond *uint256.Int

	Trust trust.Params

	EpochLengthSlots uint32
	MaxSkew          time.Duration
	AcceptPrevEpoch  bool

	SlashEquivocationQ q32.Q
	SlashNoRevealQ     q32.Q

	ZkRequired bool

	OrphanMaxAge time.Duration
}

// DefaultParams returns a self-consistent baseline configuration.
func DefaultParams() Parameters {
	return Parameters{
		LambdaQ:            q32.ONE / 5, // expected ~20% of eligible weight per slot
		MinBond:            uint256.NewInt(1),
		Trust:              trust.DefaultParams(),
		EpochLengthSlots:   3600,
		MaxSkew:            30 * time.Second,
		AcceptPrevEpoch:    true,
		SlashEquivocationQ: q32.ONE / 5,  // 20%
		SlashNoRevealQ:     q32.ONE / 100, // 1%
		ZkRequired:         false,
		OrphanMaxAge:       2 * time.Minute,
	}
}

// MainnetParams tightens the sortition rate and bond floor relative to
// DefaultParams for production deployment.
func MainnetParams() Parameters {
	p := DefaultParams()
	p.LambdaQ = q32.ONE / 10
	p.MinBond = uint256.NewInt(1_000_000)
	p.ZkRequired = true
	return p
}

// TestnetParams widens acceptance windows for a less stable network.
func TestnetParams() Parameters {
	p := DefaultParams()
	p.MaxSkew = 2 * time.Minute
	p.EpochLengthSlots = 900
	return p
}

// LocalParams shrinks the epoch length for fast local iteration.
func LocalParams() Parameters {
	p := DefaultParams()
	p.EpochLengthSlots = 32
	p.MaxSkew = 10 * time.Minute
	p.MinBond = uint256.NewInt(0)
	return p
}

// Validate rejects a configuration that would make the consensus core
// behave inconsistently across nodes.
func (p Parameters) Validate() error {
	if p.LambdaQ == 0 || p.LambdaQ > q32.ONE {
		return ErrInvalidLambda
	}
	if p.MinBond == nil {
		return ErrInvalidMinBond
	}
	// Beta weights are derived from float64 literals via truncating
	// conversion, so allow a few units of Q32.32 slack rather than
	// demanding bit-exact normalization.
	betaSum := p.Trust.Beta1Q + p.Trust.Beta2Q + p.Trust.Beta3Q
	if betaSum > q32.ONE+8 || betaSum+8 < q32.ONE {
		return ErrTrustWeightsNotNormalized
	}
	if p.Trust.FloorQ > p.Trust.InitQ {
		return ErrTrustFloorAboveInit
	}
	if p.EpochLengthSlots == 0 {
		return ErrInvalidEpochLength
	}
	if p.SlashEquivocationQ > q32.ONE || p.SlashNoRevealQ > q32.ONE {
		return ErrInvalidSlashFraction
	}
	return nil
}
