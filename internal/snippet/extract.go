package snippet

import "strings"

// Extract returns the code found in body, the text between two headers.
// Fenced code wins when body holds an even number (at least two) of fence
// lines; otherwise indented code is collected. Fenced blocks come back
// trimmed, indented code keeps its relative indentation.
func Extract(body string) string {
	return extractLines(splitLines(body))
}

// IsFenced reports whether body should be read as fenced code.
func IsFenced(body string) bool {
	return isFenced(splitLines(body))
}

func extractLines(lines []string) string {
	if isFenced(lines) {
		return extractFenced(lines)
	}
	return extractIndented(lines)
}

func isFenced(lines []string) bool {
	count := fenceCount(lines)
	return count >= 2 && count%2 == 0
}

func fenceCount(lines []string) int {
	count := 0
	for _, line := range lines {
		if _, _, ok := fenceMarker(line); ok {
			count++
		}
	}
	return count
}

// extractFenced returns the contents of every fence pair in lines,
// trimmed, separated by a blank line. Prose between pairs is dropped.
func extractFenced(lines []string) string {
	var blocks []string
	for i := 0; i < len(lines); i++ {
		ticks, _, ok := fenceMarker(lines[i])
		if !ok {
			continue
		}
		end := closingFence(lines, i+1, ticks)
		if end < 0 {
			break
		}
		if block := strings.TrimSpace(strings.Join(lines[i+1:end], "\n")); block != "" {
			blocks = append(blocks, block)
		}
		i = end
	}
	return strings.Join(blocks, "\n\n")
}

// closingFence finds the fence that closes one opened with ticks
// backticks: the first fence line from start with at least as many
// backticks, whatever its tag. Failing that, the next fence line of any
// length closes it. It returns -1 when no fence line follows.
func closingFence(lines []string, start, ticks int) int {
	next := -1
	for j := start; j < len(lines); j++ {
		n, _, ok := fenceMarker(lines[j])
		if !ok {
			continue
		}
		if n >= ticks {
			return j
		}
		if next < 0 {
			next = j
		}
	}
	return next
}

// extractIndented keeps lines indented by four or more spaces or by tabs,
// plus blank lines inside such a run. The first line of each run fixes the
// prefix stripped from the rest of the run.
func extractIndented(lines []string) string {
	var code []string
	var indent string
	inBlock := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if inBlock {
				code = append(code, "")
			}
			continue
		}
		prefix := patterns.indent.FindString(line)
		if prefix == "" {
			inBlock = false
			continue
		}
		if !inBlock {
			indent = prefix
			inBlock = true
		}
		code = append(code, strings.TrimPrefix(line, indent))
	}
	return strings.Join(code, "\n")
}
