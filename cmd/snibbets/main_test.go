package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"todo list", "todo list"},
		{"todo+list", "todo list"},
		{"todo%20list", "todo list"},
		{"caf%C3%A9", "café"},
		{"100%", "100%"},
		{"50%zz off", "50%zz off"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := decodeQuery(tt.in); got != tt.want {
				t.Errorf("decodeQuery(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadQueryFromArgs(t *testing.T) {
	got := readQuery([]string{" todo", "list "}, false, nil)
	if got != "todo list" {
		t.Errorf("expected %q, got %q", "todo list", got)
	}

	if got := readQuery(nil, true, nil); got != "" {
		t.Errorf("expected empty query, got %q", got)
	}
}

func TestReadQueryPrefersStdinForIntegration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte("git+log\n"), 0644); err != nil {
		t.Fatal(err)
	}

	open := func() *os.File {
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { f.Close() })
		return f
	}

	if got := readQuery([]string{"ignored"}, true, open()); got != "git log" {
		t.Errorf("integration: expected %q, got %q", "git log", got)
	}
	if got := readQuery([]string{"from", "args"}, false, open()); got != "from args" {
		t.Errorf("plain: expected %q, got %q", "from args", got)
	}
}

func TestReadQueryEmptyStdinFallsBackToArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := readQuery([]string{"awk"}, true, f); got != "awk" {
		t.Errorf("expected %q, got %q", "awk", got)
	}
}

func TestDecodeFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "My Snippets")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	encoded := filepath.Join(filepath.Dir(dir), "My%20Snippets")

	if got := decodeFolder(encoded); got != dir {
		t.Errorf("expected decoded %s, got %s", dir, got)
	}
	if got := decodeFolder(dir); got != dir {
		t.Errorf("expected existing folder unchanged, got %s", got)
	}

	missing := filepath.Join(t.TempDir(), "gone%20too")
	if got := decodeFolder(missing); got != missing {
		t.Errorf("expected missing folder unchanged, got %s", got)
	}
}

func TestModeWordsAreQueries(t *testing.T) {
	if rootCmd.HasSubCommands() {
		t.Fatal("root command should not have subcommands")
	}

	folder := t.TempDir()
	for _, word := range []string{"list", "watch", "mcp", "schema", "version"} {
		t.Run(word, func(t *testing.T) {
			cmd, args, err := rootCmd.Find([]string{"-o", "launchbar", "-s", folder, word})
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if cmd != rootCmd {
				t.Errorf("expected %q to reach the search command, got %q", word, cmd.Name())
			}
			if len(args) == 0 || args[len(args)-1] != word {
				t.Errorf("expected %q to stay in args, got %v", word, args)
			}
		})
	}
}

func TestModeFlagsRegistered(t *testing.T) {
	for _, name := range []string{"list", "watch", "mcp", "schema", "debounce", "no-header"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestRunRootSchema(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	flags.schema = true
	t.Cleanup(func() {
		flags.schema = false
		rootCmd.SetOut(nil)
	})

	if err := runRoot(rootCmd, []string{"list"}); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !json.Valid(out.Bytes()) {
		t.Fatalf("expected JSON, got %s", out.String())
	}
	if !strings.Contains(out.String(), `"list output"`) {
		t.Errorf("expected list schema title, got %s", out.String())
	}

	if err := runRoot(rootCmd, []string{"plain", "list"}); err == nil {
		t.Error("expected an error for two schema kinds")
	}
}
