// Package report renders search outcomes for the terminal, for tools (JSON)
// and as PDF documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperifyio/minigrep/internal/search"
)

// Format determines how an outcome is written to stdout.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" and "json", case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Options control Render.
type Options struct {
	Format Format
	Color  ColorMode
}

// Render writes o to w in the requested format. Text output without
// highlighting is identical to search.Outcome.WriteText.
func Render(w io.Writer, o search.Outcome, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, o)
	case FormatText, "":
		if !opts.Color.enabled(w) {
			return o.WriteText(w)
		}
		return writeHighlighted(w, o, newMatchStyle(w, opts.Color))
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

type jsonMatch struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type jsonOutcome struct {
	File          string      `json:"file"`
	Pattern       string      `json:"pattern"`
	CaseSensitive bool        `json:"caseSensitive"`
	Count         int         `json:"count"`
	Matches       []jsonMatch `json:"matches"`
}

func writeJSON(w io.Writer, o search.Outcome) error {
	out := jsonOutcome{
		File:          o.Filename,
		Pattern:       o.Pattern,
		CaseSensitive: o.CaseSensitive,
		Count:         len(o.Matches),
		Matches:       make([]jsonMatch, 0, len(o.Matches)),
	}
	for _, m := range o.Matches {
		out.Matches = append(out.Matches, jsonMatch{Line: m.LineNumber, Text: m.Line})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
