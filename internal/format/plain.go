package format

import (
	"fmt"
	"io"

	"snibbets/internal/config"
	"snibbets/internal/search"
	"snibbets/internal/snippet"
)

// WritePlain renders the snippets of one file for the terminal. Raw output
// prints each snippet's code followed by a newline; JSON output prints a
// single array of {title, code}.
func WritePlain(w io.Writer, snippets []snippet.Snippet, output config.Output) error {
	switch output {
	case config.OutputRaw, "":
		for _, s := range snippets {
			if err := WriteCode(w, s.Code); err != nil {
				return err
			}
		}
		return nil
	case config.OutputJSON:
		if snippets == nil {
			snippets = []snippet.Snippet{}
		}
		return writeJSON(w, snippets)
	default:
		return fmt.Errorf("%w: %q is not a plain output format", config.ErrUnknownOutput, output)
	}
}

// WriteCode prints a single snippet's code.
func WriteCode(w io.Writer, code string) error {
	if _, err := fmt.Fprintln(w, code); err != nil {
		return fmt.Errorf("writing snippet: %w", err)
	}
	return nil
}

// ListItems turns files into launcher items that search for the file
// when chosen.
func ListItems(files []search.SnippetFile) []Item {
	items := make([]Item, len(files))
	for i, f := range files {
		items[i] = Item{
			Title:              f.Title,
			Action:             FirstFileAction,
			ActionArgument:     f.Title,
			ActionReturnsItems: true,
		}
	}
	return items
}

// WriteList renders a file listing: titles one per line for raw output,
// {title, path} objects for JSON, launcher items for the integration.
func WriteList(w io.Writer, files []search.SnippetFile, output config.Output) error {
	if files == nil {
		files = []search.SnippetFile{}
	}

	switch output {
	case config.OutputRaw, "":
		for _, f := range files {
			if _, err := fmt.Fprintln(w, f.Title); err != nil {
				return fmt.Errorf("writing listing: %w", err)
			}
		}
		return nil
	case config.OutputJSON:
		return writeJSON(w, files)
	case config.OutputLaunchBar:
		return writeJSON(w, ListItems(files))
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownOutput, output)
	}
}
