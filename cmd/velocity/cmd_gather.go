package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"velocity/internal/app"
	"velocity/internal/config"

	"github.com/spf13/cobra"
)

var gatherFlags struct {
	out string
}

var gatherCmd = &cobra.Command{
	Use:   "gather TICKER",
	Short: "Run every insight agent for a ticker and write the batch as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runGather,
}

func init() {
	gatherCmd.Flags().StringVar(&gatherFlags.out, "out", "output", "Directory the batch file is written to")
}

func runGather(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.SetupLogging(cfg, os.Stdout)

	ctx := cmd.Context()
	pipeline, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	batch, err := pipeline.Gatherer.Gather(ctx, args[0])
	if err != nil {
		return fmt.Errorf("gather %s: %w", args[0], err)
	}

	raw, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	if err := os.MkdirAll(gatherFlags.out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(gatherFlags.out, strings.ToUpper(batch.Ticker)+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d insights to %s\n", batch.Count(), path)
	return nil
}
