// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/potrust/validatorid"
)

func keygenCmd() *cobra.Command {
	var showPrivate bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a validator identity keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validatorid.Generate()
			if err != nil {
				return err
			}
			vid := id.ID()
			fmt.Printf("validator_id: %s\n", hex.EncodeToString(vid[:]))
			fmt.Printf("public_key:   %s\n", hex.EncodeToString(id.PublicKeyBytes()))
			if showPrivate {
				fmt.Printf("private_key:  %s\n", hex.EncodeToString(id.PrivateKeyBytes()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPrivate, "show-private", false, "also print the private scalar (handle with care)")
	return cmd
}
