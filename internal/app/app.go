package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/minigrep/internal/report"
	"github.com/hyperifyio/minigrep/internal/search"
)

// App runs one minigrep invocation against its configuration.
type App struct {
	cfg    Config
	lookup LookupFunc
	out    io.Writer
	format report.Format
	color  report.ColorMode
}

func New(ctx context.Context, cfg Config) (*App, error) {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	color, err := report.ParseColorMode(cfg.Color)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	lookup := cfg.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if len(cfg.EnvFiles) > 0 {
		env, err := LoadEnvFiles(cfg.EnvFiles...)
		if err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
		// Process variables win over dotenv values.
		lookup = Layered(lookup, env.Lookup)
		log.Debug().Int("vars", len(env)).Strs("files", cfg.EnvFiles).Msg("dotenv loaded")
	}

	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &App{cfg: cfg, lookup: lookup, out: out, format: format, color: color}, nil
}

// Run validates the invocation, searches the file and renders the outcome.
// Validation failures are returned as *search.Error.
func (a *App) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req, err := search.ParseArguments(a.cfg.Executable, a.cfg.Args, a.caseMode)
	if err != nil {
		return err
	}
	cmd, err := search.Build(req)
	if err != nil {
		return err
	}
	defer cmd.Close()
	log.Debug().Str("command", cmd.String()).Msg("executing")

	var outcome search.Outcome
	if a.format == report.FormatText && a.color == report.ColorNever {
		outcome = cmd.Execute(a.out)
	} else {
		outcome = cmd.Outcome()
		if err := report.Render(a.out, outcome, report.Options{Format: a.format, Color: a.color}); err != nil {
			log.Error().Err(err).Msg("write report")
		}
	}
	log.Debug().Int("matches", len(outcome.Matches)).Str("file", outcome.Filename).Msg("search done")

	if a.cfg.OutputPDFPath != "" {
		if err := report.WritePDF(a.cfg.OutputPDFPath, outcome); err != nil {
			return fmt.Errorf("pdf output: %w", err)
		}
		log.Debug().Str("out", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}
	return nil
}

// caseMode reads IGNORE_CASE and reports a lookup failure without stopping.
func (a *App) caseMode() bool {
	caseSensitive, err := CaseModeFromEnv(a.lookup)
	if err != nil {
		log.Warn().Msg(err.Error())
	}
	return caseSensitive
}
