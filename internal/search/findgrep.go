package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GrepBackend shells out to find(1) for name matches and grep(1) for
// content matches.
type GrepBackend struct{}

// GrepAvailable reports whether find and grep are on PATH.
func GrepAvailable() bool {
	for _, bin := range []string{"find", "grep"} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}

// Name implements Backend.
func (GrepBackend) Name() string { return "grep" }

// Search implements Backend.
func (GrepBackend) Search(ctx context.Context, req Request) ([]string, error) {
	if !folderExists(req.Folder) {
		return nil, nil
	}

	switch req.Phase {
	case PhaseName:
		return findByName(ctx, req)
	case PhaseContent:
		return grepContent(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported phase %s", req.Phase)
	}
}

func findByName(ctx context.Context, req Request) ([]string, error) {
	args := []string{
		"-L", req.Folder,
		"-maxdepth", "1",
		"-type", "f",
		"-iname", req.Pattern.Glob(),
	}
	return runLines(ctx, "find", args, noMatchExitCode(-1))
}

func grepContent(ctx context.Context, req Request) ([]string, error) {
	filter := req.Filter
	if filter == nil {
		filter = NewFilter(req.Folder)
	}
	files, err := filter.Entries()
	if err != nil {
		return nil, fmt.Errorf("reading snippet folder: %w", err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	args := []string{
		"--ignore-case",
		"--extended-regexp",
		"--files-with-matches",
		"-e", req.Pattern.ERE(),
		"--",
	}
	args = append(args, files...)

	// Exit code 1 = no matches (not an error)
	return runLines(ctx, "grep", args, noMatchExitCode(1))
}

// noMatchExitCode is the exit status a tool uses for "nothing found";
// -1 when every non-zero status is a failure.
type noMatchExitCode int

// runLines runs a tool and returns its non-empty stdout lines.
func runLines(ctx context.Context, name string, args []string, noMatch noMatchExitCode) ([]string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if noMatch >= 0 && exitErr.ExitCode() == int(noMatch) {
				return []string{}, nil
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%s error (exit code %d): %s", name, exitErr.ExitCode(), msg)
			}
		}
		return nil, fmt.Errorf("%s error: %w", name, err)
	}

	var lines []string
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s output: %w", name, err)
	}
	return lines, nil
}
