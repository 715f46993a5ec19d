package main

import (
	"os"
	"velocity/internal/app"
	"velocity/internal/config"
	"velocity/internal/market"
	"velocity/internal/sandbox"

	"github.com/spf13/cobra"
)

var sandboxCmd = &cobra.Command{
	Use:    "sandbox FILE",
	Short:  "Interpret a generated analysis program",
	Args:   cobra.ExactArgs(1),
	Hidden: true,
	RunE:   runSandbox,
}

// runSandbox is started by the executor with a filtered environment, so it
// reads no .env file and keeps stdout for the program alone.
func runSandbox(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	app.SetupLogging(cfg, os.Stderr)

	ctx := cmd.Context()
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	r := &sandbox.Runner{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Exports: market.Exports(ctx, app.NewAccess(cfg, stores.Cache)),
	}
	return r.RunFile(ctx, args[0])
}
