package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Environment variables read by minigrep.
const (
	EnvIgnoreCase = "IGNORE_CASE"
	EnvConfig     = "MINIGREP_CONFIG"
	EnvFormat     = "MINIGREP_FORMAT"
	EnvColor      = "MINIGREP_COLOR"
	EnvOutputPDF  = "MINIGREP_OUTPUT_PDF"
	EnvVerbose    = "VERBOSE"
)

var (
	ErrEnvNotFound   = errors.New("environment variable not found")
	ErrEnvNotUnicode = errors.New("environment variable was not valid unicode")
)

// EnvError reports a variable that could not be read. It is a diagnostic,
// never fatal.
type EnvError struct {
	Key string
	Err error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("Error during the get of the variable '%s'. The error: '%s'.", e.Key, e.Err)
}

func (e *EnvError) Unwrap() error { return e.Err }

// CaseModeFromEnv derives the case mode from IGNORE_CASE. Matching is
// case-insensitive only when the value is "1" or "true" in any letter case.
// An absent or non-UTF-8 variable yields case-sensitive matching together
// with an *EnvError the caller reports.
func CaseModeFromEnv(lookup LookupFunc) (caseSensitive bool, err error) {
	v, ok := lookup(EnvIgnoreCase)
	if !ok {
		return true, &EnvError{Key: EnvIgnoreCase, Err: ErrEnvNotFound}
	}
	if !utf8.ValidString(v) {
		return true, &EnvError{Key: EnvIgnoreCase, Err: ErrEnvNotUnicode}
	}
	return !(strings.EqualFold(v, "1") || strings.EqualFold(v, "true")), nil
}

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set and non-empty. Env takes precedence over the config file; explicit
// flags are merged afterwards with MergeFlags.
func ApplyEnvOverrides(cfg *Config, lookup LookupFunc) {
	if cfg == nil || lookup == nil {
		return
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := get(EnvColor); v != "" {
		cfg.Color = v
	}
	if v := get(EnvOutputPDF); v != "" {
		cfg.OutputPDFPath = v
	}

	// Booleans override when env present and truthy/falsey
	switch strings.ToLower(get(EnvVerbose)) {
	case "1", "true", "yes", "on":
		cfg.Verbose = true
	case "0", "false", "no", "off":
		cfg.Verbose = false
	}
}
