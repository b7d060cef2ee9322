// Package scenario parses scenario command flags and runs Lua scenario
// scripts against fresh in-memory sessions.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	entrypoint "github.com/louisbranch/singularity/internal/platform/cmd"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/app"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/i18n"
	gamescenario "github.com/louisbranch/singularity/internal/services/game/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario  string        `env:"SCENARIO_FILE"`
	Glob      string        `env:"SCENARIO_GLOB"`
	StartYear int           `env:"SCENARIO_START_YEAR" envDefault:"2025"`
	Language  string        `env:"SCENARIO_LANGUAGE" envDefault:"en-US"`
	Verbose   bool          `env:"SCENARIO_VERBOSE"`
	Timeout   time.Duration `env:"SCENARIO_TIMEOUT" envDefault:"30s"`
	Paths     []string
}

// ParseConfig parses environment and flags into a Config. Positional
// arguments are additional script paths.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.StringVar(&cfg.Glob, "glob", cfg.Glob, "glob of scenario lua files")
	fs.IntVar(&cfg.StartYear, "year", cfg.StartYear, "starting calendar year")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "report language")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log every step and print the final state report")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per scenario")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Paths = fs.Args()
	return cfg, nil
}

// Run executes every selected script and reports each result on out. It
// fails when any script fails.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	paths, err := scenarioPaths(cfg)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("scenario path is required")
	}

	level := "warn"
	if cfg.Verbose {
		level = "debug"
	}
	logger := logging.NewConsole(errOut, level)
	printer := i18n.Printer(cfg.Language)

	failed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		report, err := runFile(ctx, cfg, logger, path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "PASS %s (%d steps, %d turns)\n", report.Name, report.Steps, report.Turns)
		if cfg.Verbose {
			if err := i18n.WriteReport(out, printer, report.State); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
	}
	return nil
}

func runFile(ctx context.Context, cfg Config, logger logging.Logger, path string) (gamescenario.Report, error) {
	sc, err := gamescenario.LoadFile(path)
	if err != nil {
		return gamescenario.Report{}, err
	}
	session, err := app.NewSession(app.Config{
		StartYear: cfg.StartYear,
		Logger:    logger,
		Settings: func(state *aggregate.State) {
			state.Settings.AutoSave = false
			state.Settings.Language = cfg.Language
		},
	})
	if err != nil {
		return gamescenario.Report{}, err
	}
	defer session.Close()
	session.Start()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	return gamescenario.NewRunner(session, logger).Run(ctx, sc)
}

func scenarioPaths(cfg Config) ([]string, error) {
	var paths []string
	if cfg.Scenario != "" {
		paths = append(paths, cfg.Scenario)
	}
	paths = append(paths, cfg.Paths...)
	if cfg.Glob != "" {
		matches, err := filepath.Glob(cfg.Glob)
		if err != nil {
			return nil, fmt.Errorf("scenario glob: %w", err)
		}
		slices.Sort(matches)
		paths = append(paths, matches...)
	}
	return slices.Compact(paths), nil
}
