package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snibbets/internal/mcp"
	"snibbets/internal/search"
	"snibbets/internal/tools"
)

const serverName = "snibbets"

// runMCP starts a Model Context Protocol server speaking JSON-RPC over
// stdio, with the search_snippets, get_snippets and list_snippet_files
// tools.
func runMCP(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("--mcp takes no query, got %q", args)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := search.NewBackend(cfg.Backend)
	if err != nil {
		return err
	}

	server := mcp.NewServer(serverName, version, logger)
	tools.RegisterAll(server, tools.Options{
		Folder:  cfg.Source,
		Backend: backend,
		Logger:  logger,
	})

	logger.Info("starting MCP server", "name", serverName, "version", version, "folder", cfg.Source)
	return server.Run(cmd.Context())
}
