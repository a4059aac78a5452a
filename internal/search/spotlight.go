package search

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// SpotlightBackend queries the macOS metadata index with mdfind(1).
// The index answers from whatever Spotlight has already crawled.
type SpotlightBackend struct{}

// SpotlightAvailable reports whether mdfind is on PATH.
func SpotlightAvailable() bool {
	_, err := exec.LookPath("mdfind")
	return err == nil
}

// Name implements Backend.
func (SpotlightBackend) Name() string { return "spotlight" }

// Search implements Backend.
func (SpotlightBackend) Search(ctx context.Context, req Request) ([]string, error) {
	if !folderExists(req.Folder) {
		return nil, nil
	}
	query, err := spotlightQuery(req)
	if err != nil {
		return nil, err
	}
	return runLines(ctx, "mdfind", []string{"-onlyin", req.Folder, query}, noMatchExitCode(-1))
}

// spotlightQuery builds a case- and diacritic-insensitive wildcard query,
// e.g. kMDItemFSName == "*todo*list*"cd.
func spotlightQuery(req Request) (string, error) {
	var attr string
	switch req.Phase {
	case PhaseName:
		attr = "kMDItemFSName"
	case PhaseContent:
		attr = "kMDItemTextContent"
	default:
		return "", fmt.Errorf("unsupported phase %s", req.Phase)
	}
	return attr + " == " + req.Pattern.SpotlightWildcard() + "cd", nil
}

func folderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
