// Package cmd holds the startup plumbing shared by the simulation binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/louisbranch/singularity/internal/platform/config"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/platform/otel"
)

const defaultFlushTimeout = 5 * time.Second

// Service identifiers used for telemetry resource names.
const (
	ServiceGame     = "game"
	ServiceScenario = "scenario"
)

type runOptions struct {
	flushTimeout time.Duration
	logger       logging.Logger
}

// Option tunes RunWithTelemetry.
type Option func(*runOptions)

// WithFlushTimeout bounds the span flush performed on exit.
func WithFlushTimeout(d time.Duration) Option {
	return func(o *runOptions) {
		if d > 0 {
			o.flushTimeout = d
		}
	}
}

// WithLogger reports telemetry shutdown faults to l.
func WithLogger(l logging.Logger) Option {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// ParseConfig loads SINGULARITY_ environment defaults into cfg. Flags bound
// afterwards override them.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// SignalContext returns a context cancelled on interrupt or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// RunWithTelemetry installs tracing for service, executes run, and flushes
// pending spans before returning run's error.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error, opts ...Option) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	o := runOptions{flushTimeout: defaultFlushTimeout, logger: logging.New(os.Stderr, "warn")}
	for _, opt := range opts {
		opt(&o)
	}

	shutdown, err := otel.Setup(ctx, "singularity-"+service)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), o.flushTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			o.logger.Warn("telemetry flush failed", "service", service, "error", err)
		}
	}()
	return run(ctx)
}
