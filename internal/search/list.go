package search

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ListFiles returns every snippet file in folder sorted by name, for
// browsing without a query. A missing folder gives an empty slice.
func ListFiles(folder string) ([]SnippetFile, error) {
	root, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolving folder: %w", err)
	}

	paths, err := NewFilter(root).Entries()
	if err != nil {
		return nil, fmt.Errorf("reading snippet folder: %w", err)
	}

	files := make([]SnippetFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, NewSnippetFile(p))
	}
	slices.SortStableFunc(files, func(a, b SnippetFile) int {
		return strings.Compare(filepath.Base(a.Path), filepath.Base(b.Path))
	})
	return files, nil
}
