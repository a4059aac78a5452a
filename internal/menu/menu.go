// Package menu prompts for a choice from a numbered list on the terminal.
//
// Items and prompts go to stderr so that stdout only ever carries the
// selected snippet.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user declines to choose.
var ErrCancelled = errors.New("selection cancelled")

// ErrEmpty is returned when there is nothing to choose from.
var ErrEmpty = errors.New("no items to select")

// maxPrompts bounds how often an out-of-range answer is asked again.
const maxPrompts = 100

// defaultWidth is used when the terminal width is unknown.
const defaultWidth = 80

var numberColor = color.New(color.FgCyan, color.Bold)

// Menu reads answers from In and draws on Out.
type Menu struct {
	In    io.Reader
	Out   io.Writer
	Width int // 0 means the width of Out, when it is a terminal

	reader *bufio.Reader
}

// New returns a menu on stdin and stderr.
func New() *Menu {
	return &Menu{In: os.Stdin, Out: os.Stderr}
}

// Select lists items, asks for a number with prompt and returns the
// zero-based index picked. Input that does not start with a digit, and
// end of input, return ErrCancelled. Leading digits are read as the
// number, so "3abc" picks the third item.
func (m *Menu) Select(items []string, prompt string) (int, error) {
	if len(items) == 0 {
		return -1, ErrEmpty
	}

	if m.reader == nil {
		m.reader = bufio.NewReader(m.In)
	}
	for range maxPrompts {
		if err := m.render(items, prompt); err != nil {
			return -1, err
		}

		line, err := m.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return -1, ErrCancelled
			}
			return -1, fmt.Errorf("reading selection: %w", err)
		}

		n, ok := parseChoice(line)
		if !ok {
			return -1, ErrCancelled
		}
		if n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		fmt.Fprintln(m.Out, "Out of range")
	}
	return -1, ErrCancelled
}

func (m *Menu) render(items []string, prompt string) error {
	width := m.width() - 5
	var b strings.Builder
	b.WriteString("\n")
	for i, item := range items {
		title := runewidth.Truncate(item, width, "…")
		fmt.Fprintf(&b, "%s %s\n", numberColor.Sprintf("%2d)", i+1), title)
	}
	b.WriteString("\n")
	b.WriteString(promptText(prompt))

	if _, err := io.WriteString(m.Out, b.String()); err != nil {
		return fmt.Errorf("writing menu: %w", err)
	}
	return nil
}

func (m *Menu) width() int {
	if m.Width > 0 {
		return m.Width
	}
	if f, ok := m.Out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

// promptText ends prompt with exactly one ": ".
func promptText(prompt string) string {
	return strings.TrimSuffix(prompt, ":") + ": "
}

// parseChoice reads the leading digits of line.
func parseChoice(line string) (int, bool) {
	line = strings.TrimRight(line, "\r\n")
	end := 0
	for end < len(line) && line[end] >= '0' && line[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(line[:end])
	if err != nil {
		// overflow; treat as out of range
		return -1, true
	}
	return n, true
}
