// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/potrust/khash"
)

var rootCmd = &cobra.Command{
	Use:   "potrust",
	Short: "Proof-of-Trust consensus tools",
	Long: `potrust provides tools for working with a Proof-of-Trust (PoT) consensus
deployment: configuration parameter inspection and validation, local
keypair generation, and a single-process simulation of the slot loop.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var key [32]byte
		if _, err := rand.Read(key[:]); err != nil {
			return err
		}
		khash.Init(key)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(
		paramsCmd(),
		keygenCmd(),
		runCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
