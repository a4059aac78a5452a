package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend returns canned paths per phase and records the phases run.
type fakeBackend struct {
	results map[Phase][]string
	err     error
	calls   []Phase
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Search(_ context.Context, req Request) ([]string, error) {
	f.calls = append(f.calls, req.Phase)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[req.Phase], nil
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestLocateSkipsContentPhaseWhenNamesMatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "", "b.md": ""})

	backend := &fakeBackend{results: map[Phase][]string{
		PhaseName:    {filepath.Join(dir, "a.md")},
		PhaseContent: {filepath.Join(dir, "b.md")},
	}}

	files, err := NewLocator(backend, nil).Locate(context.Background(), "a", dir)

	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseName}, backend.calls)
	assert.Equal(t, []SnippetFile{{Title: "a", Path: filepath.Join(dir, "a.md")}}, files)
}

func TestLocateFallsBackToContent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"b.md": ""})

	backend := &fakeBackend{results: map[Phase][]string{
		PhaseContent: {filepath.Join(dir, "b.md")},
	}}

	files, err := NewLocator(backend, nil).Locate(context.Background(), "zzz", dir)

	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseName, PhaseContent}, backend.calls)
	require.Len(t, files, 1)
	assert.Equal(t, "b", files[0].Title)
}

func TestLocateNoMatchesIsEmptyNotError(t *testing.T) {
	backend := &fakeBackend{}

	files, err := NewLocator(backend, nil).Locate(context.Background(), "nothing", t.TempDir())

	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
	assert.Equal(t, []Phase{PhaseName, PhaseContent}, backend.calls)
}

func TestLocateBackendFailureAborts(t *testing.T) {
	backend := &fakeBackend{err: errors.New("tool exploded")}

	_, err := NewLocator(backend, nil).Locate(context.Background(), "x", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool exploded")
	assert.Equal(t, []Phase{PhaseName}, backend.calls)
}

func TestLocateFiltersBackendPaths(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"keep.md":       "",
		".hidden.md":    "",
		"sub/nested.md": "",
		"ignored.tmp":   "",
		".gitignore":    "*.tmp\n",
		"duplicate.md":  "",
	})

	backend := &fakeBackend{results: map[Phase][]string{
		PhaseName: {
			filepath.Join(dir, "keep.md"),
			filepath.Join(dir, ".hidden.md"),
			filepath.Join(dir, "sub", "nested.md"),
			filepath.Join(dir, "sub"),
			filepath.Join(dir, "ignored.tmp"),
			filepath.Join(dir, "missing.md"),
			filepath.Join(dir, "duplicate.md"),
			"duplicate.md",
		},
	}}

	files, err := NewLocator(backend, nil).Locate(context.Background(), "x", dir)

	require.NoError(t, err)
	assert.Equal(t, []SnippetFile{
		{Title: "keep", Path: filepath.Join(dir, "keep.md")},
		{Title: "duplicate", Path: filepath.Join(dir, "duplicate.md")},
	}, files)
}

func TestScanBackendTwoPhase(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"todo-list.md": "# Make a list\n    - [ ] item\n",
		"other.md":     "# Other\nremember the todo list\n    echo other\n",
	})
	locator := NewLocator(ScanBackend{}, nil)

	t.Run("name match wins", func(t *testing.T) {
		files, err := locator.Locate(context.Background(), "todo list", dir)
		require.NoError(t, err)
		assert.Equal(t, []SnippetFile{{Title: "todo-list", Path: filepath.Join(dir, "todo-list.md")}}, files)
	})

	t.Run("content fallback", func(t *testing.T) {
		files, err := locator.Locate(context.Background(), "remember", dir)
		require.NoError(t, err)
		assert.Equal(t, []SnippetFile{{Title: "other", Path: filepath.Join(dir, "other.md")}}, files)
	})

	t.Run("case insensitive content", func(t *testing.T) {
		files, err := locator.Locate(context.Background(), "ECHO OTHER", dir)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "other", files[0].Title)
	})

	t.Run("nothing", func(t *testing.T) {
		files, err := locator.Locate(context.Background(), "kubernetes", dir)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestScanBackendMissingFolder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	files, err := NewLocator(ScanBackend{}, nil).Locate(context.Background(), "anything", missing)

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanBackendOnlyDirectChildren(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"nested/deep.md": "deep",
		"top.md":         "top",
	})

	files, err := NewLocator(ScanBackend{}, nil).Locate(context.Background(), "deep", dir)

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanBackendHonorsSnibbetsIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".snibbetsignore": "# drafts\ndraft-*\n",
		"draft-git.md":    "git",
		"git.md":          "git",
	})

	files, err := NewLocator(ScanBackend{}, nil).Locate(context.Background(), "git", dir)

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "git", files[0].Title)
}

func TestGrepBackendMatchesScan(t *testing.T) {
	if !GrepAvailable() {
		t.Skip("find/grep not available")
	}

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"todo-list.md": "nothing here",
		"other.md":     "the TODO for this list",
		"third.md":     "unrelated",
	})
	locator := NewLocator(GrepBackend{}, nil)

	files, err := locator.Locate(context.Background(), "todo list", dir)
	require.NoError(t, err)
	assert.Equal(t, []SnippetFile{{Title: "todo-list", Path: filepath.Join(dir, "todo-list.md")}}, files)

	files, err = locator.Locate(context.Background(), "for this", dir)
	require.NoError(t, err)
	assert.Equal(t, []SnippetFile{{Title: "other", Path: filepath.Join(dir, "other.md")}}, files)

	files, err = locator.Locate(context.Background(), "absent", dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = locator.Locate(context.Background(), "x", filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSpotlightQuery(t *testing.T) {
	p := NewPattern("todo list")

	q, err := spotlightQuery(Request{Pattern: p, Phase: PhaseName})
	require.NoError(t, err)
	assert.Equal(t, `kMDItemFSName == "*todo*list*"cd`, q)

	q, err = spotlightQuery(Request{Pattern: p, Phase: PhaseContent})
	require.NoError(t, err)
	assert.Equal(t, `kMDItemTextContent == "*todo*list*"cd`, q)
}

func TestNewSnippetFile(t *testing.T) {
	tests := []struct {
		path  string
		title string
	}{
		{"/s/git.md", "git"},
		{"/s/archive.tar.gz", "archive.tar"},
		{"/s/README", "README"},
		{"/s/my notes.markdown", "my notes"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, SnippetFile{Title: tt.title, Path: tt.path}, NewSnippetFile(tt.path))
		})
	}
}

func TestResultParsesLazily(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lazy.md")

	// The file does not exist yet; building the result must not read it.
	result := NewResult(NewSnippetFile(path))

	writeFiles(t, dir, map[string]string{"lazy.md": "# One\n    1\n"})
	snippets, err := result.Snippets()
	require.NoError(t, err)
	require.Len(t, snippets, 1)

	// Parsed once; later edits are not observed.
	writeFiles(t, dir, map[string]string{"lazy.md": "# Two\n    2\n"})
	again, err := result.Snippets()
	require.NoError(t, err)
	assert.Equal(t, snippets, again)
}

func TestResultUnreadableFile(t *testing.T) {
	result := NewResult(NewSnippetFile(filepath.Join(t.TempDir(), "gone.md")))

	_, err := result.Snippets()

	assert.Error(t, err)
}

func TestListFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"zsh.md":    "",
		"Awk.md":    "",
		"git.md":    "",
		".DS_Store": "",
		"dir/x.md":  "",
	})

	files, err := ListFiles(dir)
	require.NoError(t, err)

	var titles []string
	for _, f := range files {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{"Awk", "git", "zsh"}, titles)

	files, err = ListFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
