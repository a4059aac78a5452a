package search

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Pattern is the loose form of a search query: whitespace runs become
// "any characters" and the whole pattern may appear anywhere in the
// searched text. Matching ignores case.
type Pattern struct {
	Query    string
	Segments []string
	re       *regexp.Regexp
}

// NewPattern builds the pattern for query. The query is NFC-normalized so
// it compares equal to composed file names and contents.
func NewPattern(query string) Pattern {
	q := norm.NFC.String(strings.TrimSpace(query))
	p := Pattern{Query: q, Segments: strings.Fields(q)}
	p.re = regexp.MustCompile("(?i)" + p.ERE())
	return p
}

// Expression returns the whole-string form of the pattern, e.g. "todo list"
// becomes ".*todo.*list.*".
func (p Pattern) Expression() string {
	return ".*" + p.ERE() + ".*"
}

// ERE returns the pattern as a POSIX extended regular expression for grep.
// Query text is quoted, so only the joins act as wildcards.
func (p Pattern) ERE() string {
	quoted := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return strings.Join(quoted, ".*")
}

// Glob returns the pattern as a shell glob, e.g. "*todo*list*".
func (p Pattern) Glob() string {
	escaped := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		escaped[i] = globEscaper.Replace(s)
	}
	return "*" + strings.Join(escaped, "*") + "*"
}

// SpotlightWildcard returns the pattern as a quoted metadata query value,
// e.g. "*todo*list*".
func (p Pattern) SpotlightWildcard() string {
	escaped := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		escaped[i] = spotlightEscaper.Replace(s)
	}
	return `"*` + strings.Join(escaped, "*") + `*"`
}

// MatchName reports whether a file name matches.
func (p Pattern) MatchName(name string) bool {
	return p.re.MatchString(norm.NFC.String(name))
}

// MatchContent reports whether any single line of content matches.
func (p Pattern) MatchContent(content []byte) bool {
	return p.re.Match(norm.NFC.Bytes(content))
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

var spotlightEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`*`, `\*`,
)
