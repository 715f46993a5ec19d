package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"velocity/internal/app"
	"velocity/internal/config"
	"velocity/internal/data"

	"github.com/spf13/cobra"
)

var fetchFlags struct {
	section string
}

var fetchCmd = &cobra.Command{
	Use:   "fetch TICKER",
	Short: "Warm the news and filing caches for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFlags.section, "section", "", "Print one filing section, e.g. risk_factors_10k")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.SetupLogging(cfg, os.Stderr)

	ctx := cmd.Context()
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	access := app.NewAccess(cfg, stores.Cache)
	out := cmd.OutOrStdout()

	articles, err := access.News(ctx, ticker)
	if err != nil {
		return fmt.Errorf("news %s: %w", ticker, err)
	}
	fmt.Fprintf(out, "news: %d articles\n", len(articles))

	for _, form := range []string{data.Form10K, data.Form10Q} {
		sections, err := access.Filing(ctx, ticker, form)
		if errors.Is(err, data.ErrFilingUnavailable) {
			fmt.Fprintf(out, "%s: unavailable\n", form)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d sections\n", form, len(sections))
	}

	if fetchFlags.section == "" {
		return nil
	}

	section, ok := data.LookupSection(fetchFlags.section)
	if !ok {
		names := make([]string, len(data.Sections))
		for i, s := range data.Sections {
			names[i] = s.Name
		}
		return fmt.Errorf("unknown section %q, want one of: %s", fetchFlags.section, strings.Join(names, ", "))
	}

	content, err := access.Section(ctx, ticker, section)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, content)
	return nil
}
