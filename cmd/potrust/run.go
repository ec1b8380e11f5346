// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/luxfi/potrust/engine"
	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/metrics"
	"github.com/luxfi/potrust/randao"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/store/memstore"
	"github.com/luxfi/potrust/trust"
	"github.com/luxfi/potrust/validatorid"
	"github.com/luxfi/potrust/witness/zk"
)

func runCmd() *cobra.Command {
	var presetName string
	var slots uint64
	var stake uint64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a single-validator slot loop locally",
		Long: `run simulates one validator's view of the slot loop against a
freshly bonded registry of one: at each slot it checks eligibility and
prints the block it authors, if any. It is a local reference driver,
not a networked node.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := presetByName(presetName)
			if err != nil {
				return err
			}

			reg := registry.New()
			id, err := validatorid.Generate()
			if err != nil {
				return err
			}
			reg.Bond(id.ID(), uint256.NewInt(stake))

			m, err := metrics.New("potrust", metrics.NewRegistry())
			if err != nil {
				return err
			}

			genesis := forkchoice.Header{Height: 0}
			genesis.Digest = engine.HeaderDigest(genesis)

			cfg := engine.Config{
				Params:   p,
				Registry: reg,
				Trust:    trust.New(p.Trust),
				Beacon:   randao.New(),
				Storage:  memstore.New(),
				Metrics:  m,
				Identity: id,
			}
			if p.ZkRequired {
				cfg.ZkVerifier = zk.NewVerifier()
				cfg.ZkVerifyingKey = []byte(presetName + " circuit verifying key")
			}

			e := engine.New(cfg, genesis)
			if err := e.AdvanceEpoch(0); err != nil {
				return err
			}

			parent := genesis
			produced := 0
			for slot := uint64(0); slot < slots; slot++ {
				epoch := slot / uint64(p.EpochLengthSlots)
				if epoch > 0 {
					epochStart := epoch * uint64(p.EpochLengthSlots)
					if slot == epochStart {
						if err := e.AdvanceEpoch(epoch); err != nil {
							return err
						}
					}
				}

				msg, err := e.Tick(epoch, slot, parent, nil)
				if err != nil {
					return err
				}
				if msg == nil {
					continue
				}
				produced++
				parent = msg.Header
				fmt.Printf("slot %d: produced block %s (height %d, stake_q %d)\n",
					slot, hex.EncodeToString(msg.Header.Digest[:8]), msg.Header.Height, msg.Witness.StakeQ)
			}

			fmt.Printf("produced %d block(s) over %d slot(s)\n", produced, slots)
			return nil
		},
	}

	cmd.Flags().StringVar(&presetName, "preset", "local", "default, mainnet, testnet, or local")
	cmd.Flags().Uint64Var(&slots, "slots", 256, "number of slots to simulate")
	cmd.Flags().Uint64Var(&stake, "stake", 1000, "stake bonded for the simulated validator")

	return cmd
}
