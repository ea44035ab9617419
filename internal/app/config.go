package app

import "io"

// Config holds runtime configuration for one invocation.
type Config struct {
	// Invocation: the executable name and the positional arguments after it.
	Executable string
	Args       []string

	// Output
	Format        string
	Color         string
	OutputPDFPath string

	// Sources
	ConfigPath string
	EnvFiles   []string
	Verbose    bool

	// Lookup resolves environment variables; nil means the process environment.
	Lookup LookupFunc
	// Stdout receives the report; nil means os.Stdout.
	Stdout io.Writer
}

// MergeFlags copies the fields named in explicit from flags into cfg. Flags
// given on the command line win over env and config file values.
func MergeFlags(cfg *Config, flags Config, explicit map[string]bool) {
	if cfg == nil {
		return
	}
	if explicit["format"] {
		cfg.Format = flags.Format
	}
	if explicit["color"] {
		cfg.Color = flags.Color
	}
	if explicit["output.pdf"] {
		cfg.OutputPDFPath = flags.OutputPDFPath
	}
	if explicit["env"] {
		cfg.EnvFiles = append([]string{}, flags.EnvFiles...)
	}
	if explicit["v"] {
		cfg.Verbose = flags.Verbose
	}
}
