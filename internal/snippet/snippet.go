// Package snippet splits Markdown-like snippet files into titled code
// snippets.
//
// A file holds one snippet per ATX header. The text between a header and
// the next one is searched for code, either fenced with backticks or
// indented by four spaces or a tab. Everything that is not code (prose,
// lists, links) is discarded.
package snippet

import (
	"regexp"
	"strings"
)

// Snippet is a titled block of code taken from a snippet file.
type Snippet struct {
	Title string `json:"title" jsonschema_description:"Header text preceding the code, without trailing '.' or ':'"`
	Code  string `json:"code" jsonschema_description:"Code with fences and indentation removed"`
}

var patterns = struct {
	header *regexp.Regexp
	fence  *regexp.Regexp
	indent *regexp.Regexp
}{
	header: regexp.MustCompile(`^(#+)(.*)$`),
	fence:  regexp.MustCompile("^(`{3,})([\\w.+#-]*)$"),
	indent: regexp.MustCompile(`^( {4,}|\t+)`),
}

// section is the raw text belonging to one header.
type section struct {
	title  string
	header string
	body   []string
}

// Parse returns the snippets of text in document order. Content before the
// first header is ignored, and headers whose body holds no code produce
// no snippet.
func Parse(text string) []Snippet {
	var snippets []Snippet
	for _, sec := range splitSections(splitLines(text)) {
		code := strings.TrimSpace(extractLines(sec.body))
		if code == "" {
			continue
		}
		snippets = append(snippets, Snippet{Title: sec.title, Code: code})
	}
	return snippets
}

// splitSections cuts lines at ATX headers. A section left with an odd
// number of fence lines absorbs the following headers as code, but only
// when that brings its fence count back to even. A fence that is never
// closed therefore cannot hide the headers after it.
func splitSections(lines []string) []section {
	var raw []section
	for _, line := range lines {
		if m := patterns.header.FindStringSubmatch(line); m != nil {
			raw = append(raw, section{title: cleanTitle(m[2]), header: line})
			continue
		}
		if len(raw) == 0 {
			continue
		}
		cur := &raw[len(raw)-1]
		cur.body = append(cur.body, line)
	}

	var sections []section
	for i := 0; i < len(raw); i++ {
		sec := raw[i]
		if fenceCount(sec.body)%2 == 1 {
			if end := closingSection(raw, i); end > i {
				for _, next := range raw[i+1 : end+1] {
					sec.body = append(sec.body, next.header)
					sec.body = append(sec.body, next.body...)
				}
				i = end
			}
		}
		sections = append(sections, sec)
	}
	return sections
}

// closingSection returns the first section after i whose lines, joined to
// those of section i, leave an even number of fence lines, or -1.
func closingSection(raw []section, i int) int {
	count := fenceCount(raw[i].body)
	for j := i + 1; j < len(raw); j++ {
		count += fenceCount(raw[j].body)
		if count%2 == 0 {
			return j
		}
	}
	return -1
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if strings.HasSuffix(title, ".") || strings.HasSuffix(title, ":") {
		title = strings.TrimSpace(title[:len(title)-1])
	}
	return title
}

// fenceMarker reports whether line is a backtick fence, returning the
// number of backticks and the language tag.
func fenceMarker(line string) (int, string, bool) {
	m := patterns.fence.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
