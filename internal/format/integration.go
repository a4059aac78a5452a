// Package format renders located snippets for their consumers: launcher
// items for the integration, code or JSON for the terminal, and file
// listings for browsing.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"snibbets/internal/search"
)

// NoMatchesTitle is the title of the single item emitted when nothing
// matched the query.
const NoMatchesTitle = "No matching snippets found"

const (
	// PasteAction is the launcher function that pastes a snippet.
	PasteAction = "pasteIt"

	// PasteLabel is shown next to each pasteable snippet.
	PasteLabel = "Paste"

	// FirstFileAction is the launcher function that searches for a listed
	// file and returns its snippets as items.
	FirstFileAction = "firstFile"
)

// Item is one launcher menu entry: a snippet file, a listed file, or the
// no-match sentinel.
type Item struct {
	Title              string  `json:"title" jsonschema_description:"File title, or the no-match message"`
	QuickLookURL       string  `json:"quickLookURL,omitempty" jsonschema_description:"file:// URL of the snippet file for preview"`
	Action             string  `json:"action,omitempty" jsonschema_description:"Launcher function invoked when the item is chosen"`
	ActionArgument     string  `json:"actionArgument,omitempty" jsonschema_description:"Argument passed to the action"`
	ActionReturnsItems bool    `json:"actionReturnsItems,omitempty" jsonschema_description:"Whether the action produces a submenu"`
	Children           []Child `json:"children,omitempty" jsonschema_description:"One entry per snippet in the file"`
}

// Child is a pasteable snippet inside a file item.
type Child struct {
	Title          string `json:"title" jsonschema_description:"Snippet title"`
	QuickLookURL   string `json:"quickLookURL" jsonschema_description:"file:// URL of the containing file"`
	Action         string `json:"action" jsonschema_description:"Always pasteIt"`
	ActionArgument string `json:"actionArgument" jsonschema_description:"The snippet code"`
	Label          string `json:"label" jsonschema_description:"Always Paste"`
}

// NoMatches is the sentinel item for an empty search.
func NoMatches() Item {
	return Item{Title: NoMatchesTitle}
}

// QuickLookURL returns path as a file URL.
func QuickLookURL(path string) string {
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

// IntegrationItems builds one item per result that holds at least one
// snippet, in result order. Files without snippets are left out, so the
// slice may be empty even when results is not.
func IntegrationItems(results []*search.Result) ([]Item, error) {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		snippets, err := r.Snippets()
		if err != nil {
			return nil, err
		}
		if len(snippets) == 0 {
			continue
		}

		preview := QuickLookURL(r.File.Path)
		children := make([]Child, len(snippets))
		for i, s := range snippets {
			children[i] = Child{
				Title:          s.Title,
				QuickLookURL:   preview,
				Action:         PasteAction,
				ActionArgument: s.Code,
				Label:          PasteLabel,
			}
		}
		items = append(items, Item{
			Title:        r.File.Title,
			QuickLookURL: preview,
			Children:     children,
		})
	}
	return items, nil
}

// WriteIntegration writes the launcher JSON for results. An empty result
// list is written as the single NoMatches object rather than an array.
func WriteIntegration(w io.Writer, results []*search.Result) error {
	if len(results) == 0 {
		return writeJSON(w, NoMatches())
	}

	items, err := IntegrationItems(results)
	if err != nil {
		return err
	}
	return writeJSON(w, items)
}

// writeJSON encodes v on one line. Snippet code is full of <, > and &, which
// stay literal.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
