/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/suparena/databridge"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the registered database providers",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range databridge.Providers() {
			cmd.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
