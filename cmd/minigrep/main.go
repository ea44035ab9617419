package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/minigrep/internal/app"
	"github.com/hyperifyio/minigrep/internal/report"
	"github.com/hyperifyio/minigrep/internal/search"
)

// exitConfig is returned for configuration problems: bad flag values,
// unreadable config or dotenv files, or a failed PDF export.
const exitConfig = 2

// cliFlags holds the values of the command-line flags.
type cliFlags struct {
	configPath  string
	envFiles    string
	format      string
	color       string
	outputPDF   string
	verbose     bool
	showVersion bool
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	setupLogging(os.Stderr, false)

	var f cliFlags
	fs := newFlagSet(os.Args[0], flag.ExitOnError, &f)
	args, err := parseCommandLine(fs, os.Args[1:])
	if err != nil {
		os.Exit(exitConfig)
	}

	if f.showVersion {
		fmt.Println(app.VersionString())
		return
	}

	explicit := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })
	flags := app.Config{
		Format:        f.format,
		Color:         f.color,
		OutputPDFPath: f.outputPDF,
		EnvFiles:      splitList(f.envFiles),
		Verbose:       f.verbose,
	}

	cfg, err := loadConfig(f.configPath, flags, explicit, os.LookupEnv)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(exitConfig)
	}
	cfg.Executable = os.Args[0]
	cfg.Args = args
	setupLogging(os.Stderr, cfg.Verbose)

	os.Exit(exitCode(run(cfg)))
}

func newFlagSet(name string, handling flag.ErrorHandling, f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, handling)
	fs.StringVar(&f.configPath, "config", os.Getenv(app.EnvConfig), "Path to a YAML or JSON config file")
	fs.StringVar(&f.envFiles, "env", "", "Comma-separated dotenv files consulted after the process environment")
	fs.StringVar(&f.format, "format", "", "Output format: text or json")
	fs.StringVar(&f.color, "color", "", "Highlight matches: never, auto or always")
	fs.StringVar(&f.outputPDF, "output.pdf", "", "Also write the report to this PDF file")
	fs.BoolVar(&f.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")
	fs.Usage = func() { usage(fs) }
	return fs
}

// parseCommandLine parses the leading flags of args and returns the
// positional arguments. Parsing stops at the first argument that is not a
// known flag, or as soon as exactly two arguments remain, so a pattern such
// as "-x" or "--" is searched for literally.
func parseCommandLine(fs *flag.FlagSet, args []string) ([]string, error) {
	n := 0
	for n < len(args) && len(args)-n != 2 {
		fl, inline := knownFlag(fs, args[n])
		if fl == nil {
			break
		}
		width := 1
		if !inline && !isBoolFlag(fl) {
			width = 2
		}
		if n+width > len(args) {
			break
		}
		n += width
	}
	if err := fs.Parse(args[:n]); err != nil {
		return nil, err
	}
	return args[n:], nil
}

// knownFlag returns the flag named by arg ("-name", "--name" or
// "-name=value") and whether its value is given inline.
func knownFlag(fs *flag.FlagSet, arg string) (*flag.Flag, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return nil, false
	}
	name := strings.TrimPrefix(arg[1:], "-")
	inline := false
	if i := strings.IndexByte(name, '='); i >= 0 {
		name, inline = name[:i], true
	}
	if name == "" {
		return nil, false
	}
	return fs.Lookup(name), inline
}

func isBoolFlag(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [flags] pattern filename\n\n", fs.Name())
	fmt.Fprintf(out, "Prints every line of filename containing pattern. Set %s=1 or %s=true to ignore case.\n\nFlags:\n", app.EnvIgnoreCase, app.EnvIgnoreCase)
	fs.PrintDefaults()
}

// loadConfig layers configuration sources: config file, then env, then the
// flags given explicitly on the command line.
func loadConfig(configPath string, flags app.Config, explicit map[string]bool, lookup app.LookupFunc) (app.Config, error) {
	cfg := app.Config{ConfigPath: strings.TrimSpace(configPath), Lookup: lookup}
	if cfg.ConfigPath != "" {
		fc, err := app.LoadConfigFile(cfg.ConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", cfg.ConfigPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg, lookup)
	app.MergeFlags(&cfg, flags, explicit)
	if err := app.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

// exitCode maps run errors to the process exit code. Validation failures are
// printed verbatim and exit with their own code; anything else is a
// configuration problem.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := search.ExitCode(err); ok {
		log.Error().Msg(err.Error())
		return code
	}
	log.Error().Err(err).Msg("run failed")
	return exitConfig
}

// setupLogging installs the global console logger. Without verbose only the
// message is printed, so diagnostics read as plain lines on stderr.
func setupLogging(out io.Writer, verbose bool) {
	log.Logger = log.Output(newConsoleWriter(out, verbose, !report.IsTerminal(out)))
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newConsoleWriter(out io.Writer, verbose, noColor bool) zerolog.ConsoleWriter {
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: noColor}
	if !verbose {
		w.PartsOrder = []string{zerolog.MessageFieldName}
	}
	return w
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
