// Package app wires the locator, parser and formatter into the flows the
// command line offers: launcher integration output, the interactive or
// quiet terminal flow, and file listings.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"snibbets/internal/config"
	"snibbets/internal/format"
	"snibbets/internal/logging"
	"snibbets/internal/menu"
	"snibbets/internal/search"
)

// Messages written to stderr when a terminal search comes up empty.
const (
	NoResultsMessage  = "No results"
	NoSnippetsMessage = "No snippets found"
)

// Menu prompts.
const (
	SelectFilePrompt    = "Select a file"
	SelectSnippetPrompt = "Select snippet"
)

// Selector picks one of several titles, returning its index.
type Selector interface {
	Select(items []string, prompt string) (int, error)
}

// App runs searches against one snippet folder.
type App struct {
	Locator     *search.Locator
	Folder      string
	Output      config.Output
	Interactive bool
	Menu        Selector
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
}

// New builds an App from cfg, writing to the process's stdout and stderr
// and prompting on the terminal.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	backend, err := search.NewBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return &App{
		Locator:     search.NewLocator(backend, logger),
		Folder:      cfg.Source,
		Output:      cfg.Output,
		Interactive: !cfg.Output.Integration(),
		Menu:        menu.New(),
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Logger:      logger,
	}, nil
}

// Locate finds the files matching query and wraps them for lazy parsing.
func (a *App) Locate(ctx context.Context, query string) ([]*search.Result, error) {
	files, err := a.Locator.Locate(ctx, query, a.Folder)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("located snippet files", "query", query, "folder", a.Folder, "count", len(files))
	return search.Results(files), nil
}

// Search runs query and writes the outcome in the configured output.
func (a *App) Search(ctx context.Context, query string) error {
	if a.Output.Integration() {
		return a.Integration(ctx, query)
	}
	return a.Plain(ctx, query)
}

// Integration writes launcher items for every matching file.
func (a *App) Integration(ctx context.Context, query string) error {
	results, err := a.Locate(ctx, query)
	if err != nil {
		return err
	}
	return format.WriteIntegration(a.Stdout, results)
}

// Plain narrows the matches down to one file and then to one snippet,
// asking through Menu when Interactive is set and taking everything from
// the first file otherwise. Empty outcomes are reported on Stderr and are
// not errors. A declined menu returns menu.ErrCancelled.
func (a *App) Plain(ctx context.Context, query string) error {
	results, err := a.Locate(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.Stderr, NoResultsMessage)
		return nil
	}

	chosen := results[0]
	if len(results) > 1 && a.Interactive {
		titles := make([]string, len(results))
		for i, r := range results {
			titles[i] = r.File.Title
		}
		i, err := a.Menu.Select(titles, SelectFilePrompt)
		if err != nil {
			return err
		}
		chosen = results[i]
	}

	snippets, err := chosen.Snippets()
	if err != nil {
		return err
	}
	switch {
	case len(snippets) == 0:
		fmt.Fprintln(a.Stderr, NoSnippetsMessage)
		return nil
	case len(snippets) == 1 || !a.Interactive:
		return format.WritePlain(a.Stdout, snippets, a.Output)
	}

	titles := make([]string, len(snippets))
	for i, s := range snippets {
		titles[i] = s.Title
	}
	i, err := a.Menu.Select(titles, SelectSnippetPrompt)
	if err != nil {
		return err
	}
	return format.WriteCode(a.Stdout, snippets[i].Code)
}

// List writes every snippet file in the folder, sorted by name.
func (a *App) List() error {
	files, err := search.ListFiles(a.Folder)
	if err != nil {
		return err
	}
	return format.WriteList(a.Stdout, files, a.Output)
}
