// Package search locates snippet files in a folder.
//
// Location runs in two phases: file names first, and file contents only
// when no name matches. Both phases are scoped to the direct children of
// the snippet folder and run against a pluggable Backend (in-process scan,
// find+grep, or Spotlight).
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"snibbets/internal/logging"
	"snibbets/internal/snippet"
)

// Phase selects what a backend matches the pattern against.
type Phase int

const (
	// PhaseName matches file names.
	PhaseName Phase = iota
	// PhaseContent matches file contents, line by line.
	PhaseContent
)

func (p Phase) String() string {
	switch p {
	case PhaseName:
		return "name"
	case PhaseContent:
		return "content"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// phases is the fallback order used by Locate.
var phases = []Phase{PhaseName, PhaseContent}

// Request is one backend search.
type Request struct {
	Pattern Pattern
	Folder  string // absolute
	Phase   Phase
	Filter  *Filter
}

// Backend runs a single search phase and returns matching paths in the
// order its underlying tool produces them. A missing folder yields no
// paths and no error.
type Backend interface {
	Name() string
	Search(ctx context.Context, req Request) ([]string, error)
}

// SnippetFile is a located file.
type SnippetFile struct {
	Title string `json:"title" jsonschema_description:"File name without its final extension"`
	Path  string `json:"path" jsonschema_description:"Absolute path of the file"`
}

// NewSnippetFile derives the title of path from its base name.
func NewSnippetFile(path string) SnippetFile {
	base := filepath.Base(path)
	return SnippetFile{
		Title: strings.TrimSuffix(base, filepath.Ext(base)),
		Path:  path,
	}
}

// Result is a located file whose snippets are parsed on first use.
type Result struct {
	File SnippetFile

	snippets []snippet.Snippet
	loaded   bool
}

// NewResult wraps file without reading it.
func NewResult(file SnippetFile) *Result {
	return &Result{File: file}
}

// Snippets reads and parses the file once.
func (r *Result) Snippets() ([]snippet.Snippet, error) {
	if r.loaded {
		return r.snippets, nil
	}
	data, err := os.ReadFile(r.File.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.File.Path, err)
	}
	r.snippets = snippet.Parse(string(data))
	r.loaded = true
	return r.snippets, nil
}

// Locator finds snippet files with a two-phase fallback.
type Locator struct {
	backend Backend
	logger  *slog.Logger
}

// NewLocator returns a locator using backend. A nil logger discards output.
func NewLocator(backend Backend, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Locator{backend: backend, logger: logger}
}

// Backend returns the backend the locator searches with.
func (l *Locator) Backend() Backend {
	return l.backend
}

// Locate returns the files in folder matching query. File names are tried
// first; contents are searched only when no name matches. No match in
// either phase gives an empty slice. The caller rejects empty queries.
func (l *Locator) Locate(ctx context.Context, query, folder string) ([]SnippetFile, error) {
	root, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolving folder: %w", err)
	}

	pattern := NewPattern(query)
	filter := NewFilter(root)

	for _, phase := range phases {
		req := Request{Pattern: pattern, Folder: root, Phase: phase, Filter: filter}
		paths, err := l.backend.Search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s search by %s: %w", l.backend.Name(), phase, err)
		}

		files := filter.Files(paths)
		l.logger.Debug("search phase finished",
			"backend", l.backend.Name(),
			"phase", phase.String(),
			"pattern", pattern.Expression(),
			"candidates", len(paths),
			"matches", len(files))

		if len(files) > 0 {
			return files, nil
		}
	}

	return []SnippetFile{}, nil
}

// Results wraps files for lazy parsing.
func Results(files []SnippetFile) []*Result {
	results := make([]*Result, len(files))
	for i, f := range files {
		results[i] = NewResult(f)
	}
	return results
}
