package turn

import (
	"context"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"go.opentelemetry.io/otel/trace"
)

// StateStore is the state access the turn cycle needs.
type StateStore interface {
	State() *aggregate.State
	Dispatch(act action.Action)
	SaveState(ctx context.Context, name string) bool
}

// GenerationSource supplies the payload for the turn-start generation step.
type GenerationSource interface {
	GenerationPayload(state *aggregate.State) action.GenerateResources
}

type config struct {
	log    logging.Logger
	clock  func() time.Time
	gen    GenerationSource
	tracer trace.Tracer
}

// Option configures the turn and time systems.
type Option func(*config)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock sets the clock used for turn timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithGenerationSource sets the source of per-turn generation payloads.
// Without one, generation runs with no influence deltas.
func WithGenerationSource(gen GenerationSource) Option {
	return func(c *config) { c.gen = gen }
}

// WithTracer overrides the tracer used for turn spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}
