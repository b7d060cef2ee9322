package systems

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/id"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

const deploymentSource = "deployments"

// DeploymentNotice is the payload of deployment:active and
// deployment:removed.
type DeploymentNotice struct {
	ID         string
	Name       string
	ResearchID string
	Turn       int
}

// DeploymentSystem turns completed research into live deployments.
type DeploymentSystem struct {
	states StateStore
	bus    *eventbus.Bus
	ids    id.Generator
	log    logging.Logger
}

// NewDeploymentSystem creates a deployment coordinator.
func NewDeploymentSystem(states StateStore, bus *eventbus.Bus, opts ...Option) *DeploymentSystem {
	cfg := newConfig(opts)
	return &DeploymentSystem{
		states: states,
		bus:    bus,
		ids:    cfg.ids,
		log:    logging.Component(cfg.log, deploymentSource),
	}
}

// Deploy puts a completed research project into service and returns the new
// deployment id. An empty name defaults to the project name.
func (d *DeploymentSystem) Deploy(researchID, name string) (string, error) {
	state := d.states.State()
	if state == nil || state.Research == nil || state.Deployments == nil {
		return "", apperrors.New(apperrors.CodeUnknown, "state not initialized")
	}
	node, ok := state.Research.Nodes[researchID]
	if !ok {
		err := apperrors.WithMetadata(apperrors.CodeResearchUnknown, "unknown research", map[string]string{"ID": researchID})
		d.fail("deploy", err, researchID)
		return "", err
	}
	if !state.Research.IsCompleted(researchID) {
		err := apperrors.WithMetadata(apperrors.CodeResearchNotCompleted, "research not completed", map[string]string{"ID": researchID})
		d.fail("deploy", err, researchID)
		return "", err
	}
	if state.Deployments.FreeSlots() == 0 {
		err := apperrors.WithMetadata(apperrors.CodeNoDeploymentSlots, "no free deployment slots", map[string]string{
			"Slots": strconv.Itoa(state.Deployments.Slots),
		})
		d.fail("deploy", err, researchID)
		return "", err
	}

	depID, err := d.ids()
	if err != nil {
		err = fmt.Errorf("generate deployment id: %w", err)
		d.fail("deploy", err, researchID)
		return "", err
	}
	if name == "" {
		name = node.Name
	}
	turn := turnOf(state)
	d.states.Dispatch(action.DeploySystem{
		ID:         depID,
		Name:       name,
		ResearchID: researchID,
		Effects:    node.Effects,
		Turn:       turn,
	})
	d.log.Info("system deployed", "id", depID, "research", researchID, "turn", turn)
	d.emit(eventbus.TopicDeploymentActive, DeploymentNotice{ID: depID, Name: name, ResearchID: researchID, Turn: turn})
	return depID, nil
}

// Remove retires a live deployment into the history.
func (d *DeploymentSystem) Remove(depID string) error {
	state := d.states.State()
	if state == nil || state.Deployments == nil {
		return apperrors.New(apperrors.CodeUnknown, "state not initialized")
	}
	dep, ok := state.Deployments.Active[depID]
	if !ok {
		err := apperrors.WithMetadata(apperrors.CodeDeploymentNotFound, "deployment not found", map[string]string{"ID": depID})
		d.fail("remove", err, depID)
		return err
	}
	turn := turnOf(state)
	d.states.Dispatch(action.RemoveDeployment{ID: depID, Turn: turn})
	d.log.Info("deployment removed", "id", depID, "turns_active", dep.TurnsActive)
	d.emit(eventbus.TopicDeploymentRemoved, DeploymentNotice{ID: depID, Name: dep.Name, ResearchID: dep.ResearchID, Turn: turn})
	return nil
}

func (d *DeploymentSystem) fail(op string, err error, target string) {
	d.log.Info("deployment intent rejected", "operation", op, "target", target, "error", err)
	d.emit(eventbus.TopicDeploymentFailed, failure(d.states.State(), op, err, target, 0))
}

func (d *DeploymentSystem) emit(topic eventbus.Topic, data any) {
	if d.bus != nil {
		d.bus.Emit(topic, data, deploymentSource)
	}
}
