package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ScanBackend reads the snippet folder directly and matches in process.
// Results come back in file name order.
type ScanBackend struct{}

// Name implements Backend.
func (ScanBackend) Name() string { return "scan" }

// Search implements Backend.
func (ScanBackend) Search(ctx context.Context, req Request) ([]string, error) {
	filter := req.Filter
	if filter == nil {
		filter = NewFilter(req.Folder)
	}

	candidates, err := filter.Entries()
	if err != nil {
		return nil, fmt.Errorf("reading snippet folder: %w", err)
	}

	var matches []string
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch req.Phase {
		case PhaseName:
			if req.Pattern.MatchName(filepath.Base(path)) {
				matches = append(matches, path)
			}
		case PhaseContent:
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			if req.Pattern.MatchContent(content) {
				matches = append(matches, path)
			}
		default:
			return nil, fmt.Errorf("unsupported phase %s", req.Phase)
		}
	}
	return matches, nil
}
