package systems

import (
	"errors"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/id"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/statemanager"
)

// StateStore is the state access coordinators need.
type StateStore interface {
	State() *aggregate.State
	Dispatch(act action.Action)
	SubscribeToSlice(selector aggregate.Selector, fn statemanager.Listener) (unsubscribe func())
}

// Failure is the payload of every *:failed topic.
type Failure struct {
	Operation string
	Code      apperrors.Code
	Reason    string
	Target    string
	Amount    float64
}

type config struct {
	log logging.Logger
	ids id.Generator
}

// Option configures a coordinator.
type Option func(*config)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithIDGenerator sets the generator used for runtime ids.
func WithIDGenerator(gen id.Generator) Option {
	return func(c *config) {
		if gen != nil {
			c.ids = gen
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{log: logging.Nop(), ids: id.NewID}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// failure builds the Failure for err in the session's language.
func failure(state *aggregate.State, op string, err error, target string, amount float64) Failure {
	locale := apperrors.BaseLocale
	if state != nil && state.Settings != nil && state.Settings.Language != "" {
		locale = state.Settings.Language
	}
	f := Failure{
		Operation: op,
		Code:      apperrors.CodeOf(err),
		Target:    target,
		Amount:    amount,
	}
	var coded *apperrors.Error
	if errors.As(err, &coded) {
		f.Reason = coded.Reason(locale)
	} else {
		f.Reason = err.Error()
	}
	return f
}

func turnOf(state *aggregate.State) int {
	if state == nil || state.Meta == nil {
		return 0
	}
	return state.Meta.Turn
}
