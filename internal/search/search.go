package search

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Match is a single line containing the pattern.
type Match struct {
	LineNumber int
	Line       string
}

// Outcome is the result of one search together with the request it answers.
type Outcome struct {
	Filename      string
	Pattern       string
	CaseSensitive bool
	Matches       []Match
}

// CaseMode returns "sensitive" or "insensitive".
func (o Outcome) CaseMode() string {
	if o.CaseSensitive {
		return "sensitive"
	}
	return "insensitive"
}

// Summary is the first line of the text report.
func (o Outcome) Summary() string {
	if len(o.Matches) == 0 {
		return fmt.Sprintf("The file '%s' does not contain any line with the case %s pattern '%s'.", o.Filename, o.CaseMode(), o.Pattern)
	}
	return fmt.Sprintf("The file '%s' contains these lines with the case %s pattern '%s':", o.Filename, o.CaseMode(), o.Pattern)
}

// WriteText writes the summary followed by one "N: line" entry per match.
func (o Outcome) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, o.Summary())
	for _, m := range o.Matches {
		fmt.Fprintf(bw, "%d: %s\n", m.LineNumber, m.Line)
	}
	return bw.Flush()
}

// errInvalidUTF8 is reported for lines that are not valid UTF-8.
var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// Lowercase lower-cases s the way case-insensitive matching does.
func Lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// newMatcher returns the line predicate for a pattern. Insensitive matching
// lower-cases both sides before the containment check.
func newMatcher(pattern string, caseSensitive bool) func(string) bool {
	if caseSensitive {
		return func(line string) bool { return strings.Contains(line, pattern) }
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(pattern)
	return func(line string) bool {
		return strings.Contains(lower.String(line), needle)
	}
}

// scanLines reads r line by line and collects the lines accepted by match.
// Lines are 1-indexed. A line that cannot be read is reported, treated as
// empty and skipped over; the scan only stops early when the reader fails
// without consuming any input.
func scanLines(r io.Reader, filename string, match func(string) bool) []Match {
	br := bufio.NewReader(r)
	var matches []Match
	for lineNo := 1; ; lineNo++ {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			reportUnreadableLine(filename, lineNo, err)
			if raw == "" {
				break
			}
			continue
		}
		if raw == "" {
			break
		}
		line := trimLineEnding(raw)
		if !utf8.ValidString(line) {
			reportUnreadableLine(filename, lineNo, errInvalidUTF8)
			line = ""
		}
		if match(line) {
			matches = append(matches, Match{LineNumber: lineNo, Line: line})
		}
		if err != nil {
			break
		}
	}
	return matches
}

func trimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func reportUnreadableLine(filename string, lineNo int, err error) {
	log.Warn().Msgf("Cannot read the line %d from the file '%s', due to this error %s.", lineNo, filename, err)
}
