// Package tools exposes snippet search as MCP tools.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"snibbets/internal/config"
	"snibbets/internal/format"
	"snibbets/internal/logging"
	"snibbets/internal/mcp"
	"snibbets/internal/search"
)

// Options configure the registered tools.
type Options struct {
	// Folder is searched when a call names no folder
	Folder  string
	Backend search.Backend
	Logger  *slog.Logger
}

// RegisterAll registers all available tools on the MCP server
func RegisterAll(server *mcp.Server, opts Options) {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Backend == nil {
		opts.Backend = search.ScanBackend{}
	}
	t := &toolset{opts: opts, locator: search.NewLocator(opts.Backend, opts.Logger)}

	registerSearchSnippets(server, t)
	registerGetSnippets(server, t)
	registerListSnippetFiles(server, t)
}

type toolset struct {
	opts    Options
	locator *search.Locator
}

var folderProperty = mcp.Property{
	Type:        "string",
	Description: "Snippet folder to search instead of the configured one",
}

func registerSearchSnippets(server *mcp.Server, t *toolset) {
	tool := mcp.Tool{
		Name:        "search_snippets",
		Description: "Search the snippet folder by file name, falling back to file contents. Returns every matching file with its titled code snippets, or a single \"No matching snippets found\" item.",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]mcp.Property{
				"query": {
					Type:        "string",
					Description: "Words to look for; spaces match any run of characters",
				},
				"folder": folderProperty,
			},
			Required: []string{"query"},
		},
	}

	handler := func(ctx context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
		query, folder, err := t.queryArgs(args)
		if err != nil {
			return nil, err
		}

		files, err := t.locator.Locate(ctx, query, folder)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := format.WriteIntegration(&buf, search.Results(files)); err != nil {
			return nil, err
		}
		return mcp.TextResult(strings.TrimSpace(buf.String())), nil
	}

	server.RegisterTool(tool, handler)
}

func registerGetSnippets(server *mcp.Server, t *toolset) {
	tool := mcp.Tool{
		Name:        "get_snippets",
		Description: "Return the snippets of the best matching file as a JSON list of {title, code}. Returns [] when nothing matches.",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]mcp.Property{
				"query": {
					Type:        "string",
					Description: "Words to look for; spaces match any run of characters",
				},
				"folder": folderProperty,
			},
			Required: []string{"query"},
		},
	}

	handler := func(ctx context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
		query, folder, err := t.queryArgs(args)
		if err != nil {
			return nil, err
		}

		files, err := t.locator.Locate(ctx, query, folder)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return mcp.TextResult("[]"), nil
		}

		snippets, err := search.NewResult(files[0]).Snippets()
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := format.WritePlain(&buf, snippets, config.OutputJSON); err != nil {
			return nil, err
		}
		return mcp.TextResult(strings.TrimSpace(buf.String())), nil
	}

	server.RegisterTool(tool, handler)
}

func registerListSnippetFiles(server *mcp.Server, t *toolset) {
	tool := mcp.Tool{
		Name:        "list_snippet_files",
		Description: "List every snippet file in the folder, sorted by name, as a JSON list of {title, path}.",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]mcp.Property{
				"folder": folderProperty,
			},
		},
	}

	handler := func(_ context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
		folder, err := t.folderArg(args)
		if err != nil {
			return nil, err
		}

		files, err := search.ListFiles(folder)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := format.WriteList(&buf, files, config.OutputJSON); err != nil {
			return nil, err
		}
		return mcp.TextResult(strings.TrimSpace(buf.String())), nil
	}

	server.RegisterTool(tool, handler)
}

func (t *toolset) queryArgs(args map[string]any) (string, string, error) {
	query, _ := args["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return "", "", fmt.Errorf("query is required")
	}
	folder, err := t.folderArg(args)
	if err != nil {
		return "", "", err
	}
	return query, folder, nil
}

func (t *toolset) folderArg(args map[string]any) (string, error) {
	folder, _ := args["folder"].(string)
	if strings.TrimSpace(folder) == "" {
		folder = t.opts.Folder
	}
	if folder == "" {
		return "", fmt.Errorf("folder is required: no snippet folder is configured")
	}
	return config.ExpandPath(folder)
}
