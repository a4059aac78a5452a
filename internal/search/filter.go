package search

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreFiles are read from the snippet folder, in order.
var ignoreFiles = []string{".snibbetsignore", ".gitignore"}

// Filter decides which paths count as snippet files: regular, non-hidden
// direct children of the root that no ignore file excludes.
type Filter struct {
	root     string
	resolved string // root with symlinks evaluated, as Spotlight reports it
	ignore   *ignore.GitIgnore
}

// NewFilter loads ignore patterns from root.
func NewFilter(root string) *Filter {
	root = filepath.Clean(root)
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolved = root
	}
	return &Filter{
		root:     root,
		resolved: resolved,
		ignore:   loadIgnore(root),
	}
}

// Keep reports whether path passes the name checks. It does not touch the
// filesystem.
func (f *Filter) Keep(path string) bool {
	path = filepath.Clean(path)
	if filepath.Dir(path) != f.root {
		return false
	}
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if f.ignore != nil && f.ignore.MatchesPath(name) {
		return false
	}
	return true
}

// Files keeps the paths that pass Keep and name regular files, preserving
// order and dropping duplicates.
func (f *Filter) Files(paths []string) []SnippetFile {
	files := make([]SnippetFile, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.root, p)
		}
		p = f.rebase(filepath.Clean(p))
		if !f.Keep(p) || !isRegularFile(p) || seen[p] {
			continue
		}
		seen[p] = true
		files = append(files, NewSnippetFile(p))
	}
	return files
}

// rebase rewrites a path under the resolved root to sit under root.
func (f *Filter) rebase(path string) string {
	if f.resolved == f.root || filepath.Dir(path) != f.resolved {
		return path
	}
	return filepath.Join(f.root, filepath.Base(path))
}

// Entries lists the root's children that pass Keep and are regular files,
// sorted by name. A missing root yields nothing.
func (f *Filter) Entries() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		p := filepath.Join(f.root, e.Name())
		if !f.Keep(p) {
			continue
		}
		if e.IsDir() || !isRegularFile(p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// isRegularFile follows symlinks.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// loadIgnore compiles the ignore files in root, or returns nil when there
// are none.
func loadIgnore(root string) *ignore.GitIgnore {
	var patterns []string
	for _, name := range ignoreFiles {
		content, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimRight(line, "\r")
			if line != "" && !isComment(line) {
				patterns = append(patterns, line)
			}
		}
	}

	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}

func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) > 0 && trimmed[0] == '#'
}
