package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "velocity",
	Short:        "Gather and cache investment insights",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(gatherCmd, fetchCmd, sandboxCmd)
}
