package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snibbets/internal/app"
)

// runList lists every snippet file in the folder, sorted by name. Raw
// output prints one title per line, json prints {title, path} objects,
// and launchbar prints items that search for the file when chosen.
func runList(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("--list takes no query, got %q", args)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	return a.List()
}
