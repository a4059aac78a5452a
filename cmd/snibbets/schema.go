package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snibbets/internal/format"
)

const defaultSchemaKind = "integration"

// runSchema prints the JSON Schema of integration, plain json or list
// output.
func runSchema(cmd *cobra.Command, args []string) error {
	kind := defaultSchemaKind
	switch len(args) {
	case 0:
	case 1:
		kind = args[0]
	default:
		return fmt.Errorf("--schema takes at most one kind, got %d", len(args))
	}
	return format.WriteSchema(cmd.OutOrStdout(), kind)
}
