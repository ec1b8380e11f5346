// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/potrust/config"
)

func presetByName(name string) (config.Parameters, error) {
	switch name {
	case "", "default":
		return config.DefaultParams(), nil
	case "mainnet":
		return config.MainnetParams(), nil
	case "testnet":
		return config.TestnetParams(), nil
	case "local":
		return config.LocalParams(), nil
	default:
		return config.Parameters{}, fmt.Errorf("unknown preset %q: want default, mainnet, testnet, or local", name)
	}
}

func paramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect and validate consensus parameter presets",
	}

	var preset string

	show := &cobra.Command{
		Use:   "show",
		Short: "Print a parameter preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := presetByName(preset)
			if err != nil {
				return err
			}
			printParams(p)
			return nil
		},
	}
	show.Flags().StringVar(&preset, "preset", "default", "default, mainnet, testnet, or local")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate a parameter preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := presetByName(preset)
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
	validate.Flags().StringVar(&preset, "preset", "default", "default, mainnet, testnet, or local")

	cmd.AddCommand(show, validate)
	return cmd
}

func printParams(p config.Parameters) {
	fmt.Printf("lambda_q:             %d / 2^32\n", p.LambdaQ)
	fmt.Printf("min_bond:             %s\n", p.MinBond.String())
	fmt.Printf("epoch_length_slots:   %d\n", p.EpochLengthSlots)
	fmt.Printf("max_skew:             %s\n", p.MaxSkew)
	fmt.Printf("accept_prev_epoch:    %t\n", p.AcceptPrevEpoch)
	fmt.Printf("slash_equivocation_q: %d / 2^32\n", p.SlashEquivocationQ)
	fmt.Printf("slash_no_reveal_q:    %d / 2^32\n", p.SlashNoRevealQ)
	fmt.Printf("zk_required:          %t\n", p.ZkRequired)
	fmt.Printf("orphan_max_age:       %s\n", p.OrphanMaxAge)
	fmt.Printf("trust.alpha_q:        %d / 2^32\n", p.Trust.AlphaQ)
	fmt.Printf("trust.init_q:         %d / 2^32\n", p.Trust.InitQ)
	fmt.Printf("trust.floor_q:        %d / 2^32\n", p.Trust.FloorQ)
}
