package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/app"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"github.com/louisbranch/singularity/internal/services/game/systems"
)

// StepError reports the step at which a run stopped.
type StepError struct {
	Index int
	Kind  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Report summarizes a run.
type Report struct {
	Name  string
	Steps int
	Turns int
	State *aggregate.State
}

// Runner applies scenario steps to a started session.
type Runner struct {
	session *app.Session
	log     logging.Logger

	aliases     map[string]string
	lastFailure *systems.Failure
}

// NewRunner creates a runner over session. The session must be started.
func NewRunner(session *app.Session, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{
		session: session,
		log:     logging.Component(log, "scenario"),
		aliases: map[string]string{},
	}
}

// Run applies every step of sc in order.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Report, error) {
	if sc == nil {
		return Report{}, errors.New("scenario is required")
	}
	bus := r.session.Bus
	record := func(evt eventbus.Event) error {
		if f, ok := evt.Data.(systems.Failure); ok {
			r.lastFailure = &f
		}
		return nil
	}
	computing := bus.Subscribe(eventbus.TopicComputingFailed, record, "scenario")
	defer bus.Unsubscribe(eventbus.TopicComputingFailed, computing)

	report := Report{Name: sc.Name}
	startTurn := r.session.State().Meta.Turn
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := r.check(step, r.apply(ctx, step))
		report.Steps = i + 1
		if err != nil {
			r.log.Warn("scenario step failed", "scenario", sc.Name, "step", i+1, "kind", step.Kind, "error", err)
			report.State = r.session.State()
			report.Turns = report.State.Meta.Turn - startTurn
			return report, &StepError{Index: i, Kind: step.Kind, Err: err}
		}
		r.log.Debug("scenario step applied", "scenario", sc.Name, "step", i+1, "kind", step.Kind)
	}
	report.State = r.session.State()
	report.Turns = report.State.Meta.Turn - startTurn
	return report, nil
}

// check compares the step's outcome with the scripted expectation.
func (r *Runner) check(step Step, err error) error {
	if step.Fails == "" {
		return err
	}
	if err == nil {
		return fmt.Errorf("expected failure %s, step succeeded", step.Fails)
	}
	if got := apperrors.CodeOf(err); string(got) != step.Fails {
		return fmt.Errorf("expected failure %s, got %s: %w", step.Fails, got, err)
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, step Step) error {
	s := r.session
	args := step.Args
	switch step.Kind {
	case StepStartResearch:
		compute, _ := number(args["compute"])
		return s.Research.StartResearch(str(args["id"]), compute)
	case StepCancelResearch:
		return s.Research.CancelResearch(str(args["id"]))
	case StepCompleteResearch:
		return s.Research.CompleteResearch(str(args["id"]))
	case StepDeploy:
		depID, err := s.Deployments.Deploy(str(args["research"]), str(args["name"]))
		if err != nil {
			return err
		}
		if alias := str(args["as"]); alias != "" {
			r.aliases[alias] = depID
		}
		return nil
	case StepRemoveDeployment:
		ref := str(args["id"])
		if depID, ok := r.aliases[ref]; ok {
			ref = depID
		}
		return s.Deployments.Remove(ref)
	case StepEndTurn:
		count, _ := number(args["count"])
		for i := 0; i < int(count); i++ {
			if !s.EndTurn(ctx) {
				return errors.New("turn did not end")
			}
		}
		return nil
	case StepResolveEvent:
		return s.Events.Resolve(str(args["id"]), str(args["choice"]))
	case StepAllocate, StepDeallocate:
		amount, _ := number(args["amount"])
		target := str(args["target"])
		r.lastFailure = nil
		ok := false
		if step.Kind == StepAllocate {
			ok = s.Resources.AllocateComputing(target, amount)
		} else {
			ok = s.Resources.DeallocateComputing(target, amount)
		}
		if ok {
			return nil
		}
		if f := r.lastFailure; f != nil {
			return apperrors.New(f.Code, f.Reason)
		}
		return fmt.Errorf("%s %s failed", step.Kind, target)
	case StepDispatch:
		act, err := decodeAction(str(args["type"]), args["payload"])
		if err != nil {
			return err
		}
		s.Dispatch(act)
		return nil
	case StepSave:
		return s.Save(ctx, str(args["name"]))
	case StepLoad:
		return s.Load(ctx, str(args["name"]))
	case StepExpect:
		return Expect(s.State(), args)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func decodeAction(actionType string, payload any) (action.Action, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	act := action.Decode(action.Envelope{Type: strings.TrimSpace(actionType), Payload: raw})
	if unknown, ok := act.(action.Unknown); ok {
		return nil, fmt.Errorf("unknown action type %q", unknown.Name)
	}
	return act, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
