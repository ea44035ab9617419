package search

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Command is a validated request bound to an open, readable regular file.
// The Command owns the file; Close releases it.
type Command struct {
	pattern       string
	filename      string
	caseSensitive bool
	file          *os.File
}

// Build validates req and opens its file. Checks run in a fixed order so the
// reported error is always the first violated precondition: blank pattern,
// missing path, unresolvable path, non-regular node, unreadable file.
func Build(req SearchRequest) (*Command, error) {
	if strings.TrimSpace(req.Pattern) == "" {
		return nil, newError(KindBlankPattern, req.Pattern, nil)
	}

	info, err := os.Stat(req.Filename)
	if err != nil {
		return nil, newError(KindFileNotFound, req.Filename, err)
	}
	if !info.Mode().IsRegular() {
		return nil, notAFile(req.Filename, info)
	}

	// The open result is authoritative; the file may have changed since Stat.
	f, err := os.Open(req.Filename)
	if err != nil {
		return nil, newError(KindNotAReadableFile, req.Filename, err)
	}
	log.Debug().Str("file", req.Filename).Bool("caseSensitive", req.CaseSensitive).Msg("command ready")
	return &Command{
		pattern:       req.Pattern,
		filename:      req.Filename,
		caseSensitive: req.CaseSensitive,
		file:          f,
	}, nil
}

func notAFile(filename string, info os.FileInfo) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return newError(KindCannotResolvePath, filename, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return newError(KindCannotResolvePath, filename, err)
	}
	if !utf8.ValidString(abs) {
		return newError(KindCannotConvertPath, filename, nil)
	}
	e := newError(KindNotAFile, abs, nil)
	e.NodeKind = NodeUnknown
	if info.IsDir() {
		e.NodeKind = NodeDirectory
	}
	return e
}

func (c *Command) Pattern() string     { return c.pattern }
func (c *Command) Filename() string    { return c.filename }
func (c *Command) CaseSensitive() bool { return c.caseSensitive }

// Search scans the whole file and returns the matching lines in order. The
// file is rewound first, so repeated calls give the same result as long as
// the file is unchanged.
func (c *Command) Search() []Match {
	if c.file == nil {
		return nil
	}
	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		log.Warn().Msgf("Cannot rewind the file '%s', due to this error %s.", c.filename, causeText(err))
	}
	return scanLines(c.file, c.filename, newMatcher(c.pattern, c.caseSensitive))
}

// Outcome runs Search and pairs the matches with the request context.
func (c *Command) Outcome() Outcome {
	return Outcome{
		Filename:      c.filename,
		Pattern:       c.pattern,
		CaseSensitive: c.caseSensitive,
		Matches:       c.Search(),
	}
}

// Execute searches the file and writes the text report to w. It does not
// fail: a write error is logged and the outcome is still returned.
func (c *Command) Execute(w io.Writer) Outcome {
	o := c.Outcome()
	if err := o.WriteText(w); err != nil {
		log.Error().Err(err).Str("file", c.filename).Msg("write report")
	}
	return o
}

// Close releases the file handle. It is safe to call more than once.
func (c *Command) Close() error {
	if c == nil || c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

func (c *Command) String() string {
	return fmt.Sprintf("MiniGrep command searching the pattern '%s' in the file '%s'.", c.pattern, c.filename)
}
