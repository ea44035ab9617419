package search

import (
	"errors"
	"fmt"
	"io/fs"
)

// Category separates malformed invocations from well-formed requests that
// cannot be served.
type Category int

const (
	CategorySyntax Category = iota + 1
	CategoryArgument
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Kind identifies the precondition an invocation violated.
type Kind int

const (
	KindMissing Kind = iota + 1
	KindTooMany
	KindBlankPattern
	KindNotAFile
	KindFileNotFound
	KindCannotResolvePath
	KindNotAReadableFile
	KindCannotConvertPath
)

var kindNames = map[Kind]string{
	KindMissing:           "missing",
	KindTooMany:           "too-many",
	KindBlankPattern:      "blank-pattern",
	KindNotAFile:          "not-a-file",
	KindFileNotFound:      "file-not-found",
	KindCannotResolvePath: "cannot-resolve-path",
	KindNotAReadableFile:  "not-a-readable-file",
	KindCannotConvertPath: "cannot-convert-path",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Process exit codes, one per Kind.
const (
	CodeMissing           = 126
	CodeTooMany           = 127
	CodeBlankPattern      = 130
	CodeNotAFile          = 131
	CodeFileNotFound      = 132
	CodeCannotResolvePath = 133
	CodeNotAReadableFile  = 134
	CodeCannotConvertPath = 135
)

// Node kinds reported for paths that exist but are not regular files.
const (
	NodeDirectory = "directory"
	NodeUnknown   = "unknown"
)

var kindCodes = map[Kind]int{
	KindMissing:           CodeMissing,
	KindTooMany:           CodeTooMany,
	KindBlankPattern:      CodeBlankPattern,
	KindNotAFile:          CodeNotAFile,
	KindFileNotFound:      CodeFileNotFound,
	KindCannotResolvePath: CodeCannotResolvePath,
	KindNotAReadableFile:  CodeNotAReadableFile,
	KindCannotConvertPath: CodeCannotConvertPath,
}

// Error is the single failure type of the validation pipeline. Value holds
// the offending input: the executable name for syntax errors, otherwise the
// pattern, the filename or the absolute path. Err is the underlying I/O cause
// when there is one.
type Error struct {
	Kind     Kind
	Code     int
	Value    string
	NodeKind string
	Err      error
}

func newError(kind Kind, value string, cause error) *Error {
	return &Error{Kind: kind, Code: kindCodes[kind], Value: value, Err: cause}
}

// Category reports whether the error is a syntax or an argument problem.
func (e *Error) Category() Category {
	switch e.Kind {
	case KindMissing, KindTooMany:
		return CategorySyntax
	default:
		return CategoryArgument
	}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissing:
		return fmt.Sprintf("Missing arguments. Call the script like: %s pattern filename", e.Value)
	case KindTooMany:
		return fmt.Sprintf("Too many arguments. Call the script like: %s pattern filename", e.Value)
	case KindBlankPattern:
		return fmt.Sprintf("Cannot have a blank searched text '%s'.", e.Value)
	case KindNotAFile:
		return fmt.Sprintf("'%s' is not a file, it is a %s.", e.Value, e.NodeKind)
	case KindFileNotFound:
		return fmt.Sprintf("The file '%s' does not exist.", e.Value)
	case KindCannotResolvePath:
		return fmt.Sprintf("Cannot resolve the path ('%s') to the absolute path, due to this error %s.", e.Value, causeText(e.Err))
	case KindNotAReadableFile:
		return fmt.Sprintf("Cannot open the file '%s', due to this error %s.", e.Value, causeText(e.Err))
	case KindCannotConvertPath:
		return fmt.Sprintf("The absolute path conversion ('%s') to its string representation fails.", e.Value)
	default:
		return fmt.Sprintf("invalid invocation %q", e.Value)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit code carried by err, if err is (or wraps)
// an *Error.
func ExitCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// causeText drops the operation and path from fs errors; the message around
// it already names the file.
func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	var pe *fs.PathError
	if errors.As(err, &pe) && pe.Err != nil {
		return pe.Err.Error()
	}
	return err.Error()
}
