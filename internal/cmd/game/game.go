// Package game parses game command flags and runs a session, either
// headless for a number of turns or served over a websocket.
package game

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	entrypoint "github.com/louisbranch/singularity/internal/platform/cmd"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/app"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/i18n"
)

// Config holds game command configuration.
type Config struct {
	Addr        string `env:"GAME_ADDR" envDefault:"127.0.0.1:8090"`
	Turns       int    `env:"GAME_TURNS"`
	Load        string `env:"GAME_LOAD"`
	StartYear   int    `env:"GAME_START_YEAR"`
	Language    string `env:"GAME_LANGUAGE" envDefault:"en-US"`
	AutoSave    bool   `env:"GAME_AUTOSAVE" envDefault:"true"`
	SaveBackend string `env:"GAME_SAVE_BACKEND" envDefault:"bbolt"`
	SavePath    string `env:"GAME_SAVE_PATH" envDefault:"data/saves.db"`
	PostgresDSN string `env:"GAME_POSTGRES_DSN"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogConsole  bool   `env:"LOG_CONSOLE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The websocket server listen address")
	fs.IntVar(&cfg.Turns, "turns", cfg.Turns, "Run this many turns headless and print a report instead of serving")
	fs.StringVar(&cfg.Load, "load", cfg.Load, "Save slot to load before playing")
	fs.IntVar(&cfg.StartYear, "year", cfg.StartYear, "Starting calendar year (defaults to the current year)")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "Report and failure message language")
	fs.BoolVar(&cfg.AutoSave, "autosave", cfg.AutoSave, "Save to the autosave slot at every turn end")
	fs.StringVar(&cfg.SaveBackend, "saves", cfg.SaveBackend, "Save backend: memory, bbolt, sqlite, or postgres")
	fs.StringVar(&cfg.SavePath, "save-path", cfg.SavePath, "Save file for the bbolt and sqlite backends")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "Connection string for the postgres backend")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.BoolVar(&cfg.LogConsole, "log-console", cfg.LogConsole, "Human-readable logs")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Turns < 0 {
		return Config{}, fmt.Errorf("turns must not be negative")
	}
	return cfg, nil
}

// Run starts a session and plays it headless or serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		return run(ctx, cfg, os.Stdout, os.Stderr)
	})
}

func run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	logger := logging.New(stderr, cfg.LogLevel)
	if cfg.LogConsole {
		logger = logging.NewConsole(stderr, cfg.LogLevel)
	}

	store, err := app.OpenSaveStore(ctx, app.StoreConfig{
		Backend:     cfg.SaveBackend,
		Path:        cfg.SavePath,
		PostgresDSN: cfg.PostgresDSN,
	})
	if err != nil {
		return err
	}
	session, err := app.NewSession(app.Config{
		StartYear: cfg.StartYear,
		Store:     store,
		Logger:    logger,
		Settings: func(state *aggregate.State) {
			state.Settings.AutoSave = cfg.AutoSave
			if lang := strings.TrimSpace(cfg.Language); lang != "" {
				state.Settings.Language = lang
			}
		},
	})
	if err != nil {
		store.Close()
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("close session", "error", err)
		}
	}()

	if cfg.Load != "" {
		if err := session.Load(ctx, cfg.Load); err != nil {
			return err
		}
	}
	session.Start()

	if cfg.Turns > 0 {
		return playHeadless(ctx, session, cfg.Turns, i18n.Printer(session.State().Settings.Language), stdout)
	}
	server, err := app.NewServer(cfg.Addr, session, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
