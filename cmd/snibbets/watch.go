package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"snibbets/internal/app"
	"snibbets/internal/watch"
)

var watchFlags struct {
	debounce time.Duration
	noHeader bool
}

func init() {
	f := rootCmd.Flags()
	f.DurationVar(&watchFlags.debounce, "debounce", watch.DefaultConfig().Debounce, "with --watch, wait this long after the last change before searching")
	f.BoolVar(&watchFlags.noHeader, "no-header", false, "with --watch, do not print a header before each result")
}

// runWatch runs the query once, then again each time a snippet file is
// created, edited, removed or renamed. Menus are skipped: every snippet of
// the first match is printed.
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	query := strings.TrimSpace(decodeQuery(strings.Join(args, " ")))
	if query == "" {
		return emptyQuery(cmd)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	a.Interactive = false

	watchCfg := watch.Config{
		Debounce: watchFlags.debounce,
		Query:    query,
		Header:   !watchFlags.noHeader,
	}
	w, err := watch.New(cfg.Source, func(ctx context.Context) error {
		return a.Search(ctx, query)
	}, watchCfg, os.Stderr, logger)
	if err != nil {
		return err
	}
	return w.Run(cmd.Context())
}
