package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/hyperifyio/minigrep/internal/search"
)

// ColorMode selects when matches are highlighted.
type ColorMode string

const (
	ColorNever  ColorMode = "never"
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
)

// ParseColorMode accepts never, auto and always. Empty means never.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColorNever:
		return ColorNever, nil
	case ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want never, auto or always)", s)
	}
}

func (m ColorMode) enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorAuto:
		return IsTerminal(w)
	default:
		return false
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var (
	colorMatchFg = lipgloss.Color("#FCD34D")
	colorMatchBg = lipgloss.Color("#78350F")
)

func newMatchStyle(w io.Writer, mode ColorMode) lipgloss.Style {
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.ANSI256)
	}
	return r.NewStyle().
		Bold(true).
		Foreground(colorMatchFg).
		Background(colorMatchBg).
		TabWidth(lipgloss.NoTabConversion)
}

func writeHighlighted(w io.Writer, o search.Outcome, style lipgloss.Style) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, o.Summary())
	for _, m := range o.Matches {
		fmt.Fprintf(bw, "%d: %s\n", m.LineNumber, highlightLine(m.Line, o.Pattern, o.CaseSensitive, style))
	}
	return bw.Flush()
}

// highlightLine wraps every occurrence of pattern in style. In insensitive
// mode occurrences are located on the lower-cased line, which only maps back
// onto the original when lowering kept the byte width of every rune; otherwise,
// or when a span would split a rune, the line is returned unchanged.
func highlightLine(line, pattern string, caseSensitive bool, style lipgloss.Style) string {
	hay, needle := line, pattern
	if !caseSensitive {
		hay, needle = search.Lowercase(line), search.Lowercase(pattern)
		if !sameRuneWidths(line, hay) {
			return line
		}
	}
	if needle == "" {
		return line
	}

	var b strings.Builder
	rest := line
	for {
		i := strings.Index(hay, needle)
		if i < 0 {
			break
		}
		end := i + len(needle)
		if !runeBoundary(rest, i) || !runeBoundary(rest, end) {
			return line
		}
		b.WriteString(rest[:i])
		b.WriteString(style.Render(rest[i:end]))
		rest, hay = rest[end:], hay[end:]
	}
	b.WriteString(rest)
	return b.String()
}

func runeBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

// sameRuneWidths reports whether a and b hold the same number of runes with
// equal encoded widths at every position, so byte offsets carry over.
func sameRuneWidths(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for a != "" {
		_, na := utf8.DecodeRuneInString(a)
		_, nb := utf8.DecodeRuneInString(b)
		if na != nb {
			return false
		}
		a, b = a[na:], b[nb:]
	}
	return true
}
