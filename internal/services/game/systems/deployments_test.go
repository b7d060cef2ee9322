package systems

import (
	"math"
	"testing"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

func deployableTree() aggregate.Options {
	defs := testTree()
	defs[0].Effects = core.Effects{ComputingEfficiency: 1.1}
	return aggregate.Options{Research: defs, DeploymentSlots: 2}
}

func TestDeployRequiresCompletedResearch(t *testing.T) {
	f := newFixture(t, deployableTree())
	failed := capture(f.bus, eventbus.TopicDeploymentFailed)

	if _, err := f.deployments.Deploy("basics", ""); apperrors.CodeOf(err) != apperrors.CodeResearchNotCompleted {
		t.Fatalf("err = %v, want research not completed", err)
	}
	if _, err := f.deployments.Deploy("missing", ""); apperrors.CodeOf(err) != apperrors.CodeResearchUnknown {
		t.Fatalf("err = %v, want research unknown", err)
	}
	if len(*failed) != 2 {
		t.Fatalf("failures = %d, want 2", len(*failed))
	}
}

func TestDeployAppliesEffects(t *testing.T) {
	f := newFixture(t, deployableTree())
	active := capture(f.bus, eventbus.TopicDeploymentActive)
	f.research.CompleteResearch("basics")

	depID, err := f.deployments.Deploy("basics", "")
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if depID != "dep-1" {
		t.Fatalf("id = %q, want dep-1", depID)
	}
	state := f.states.State()
	dep, ok := state.Deployments.Active[depID]
	if !ok || dep.Name != "Basics" || dep.ResearchID != "basics" {
		t.Fatalf("deployment = %+v", dep)
	}
	if got := state.Resources.Computing.Efficiency; math.Abs(got-1.1) > 1e-9 {
		t.Fatalf("efficiency = %v, want 1.1", got)
	}
	if len(*active) != 1 || (*active)[0].(DeploymentNotice).ID != depID {
		t.Fatalf("active = %+v", *active)
	}
}

func TestDeployRespectsSlots(t *testing.T) {
	f := newFixture(t, deployableTree())
	f.research.CompleteResearch("basics")
	for i := 0; i < 2; i++ {
		if _, err := f.deployments.Deploy("basics", ""); err != nil {
			t.Fatalf("deploy %d: %v", i, err)
		}
	}
	_, err := f.deployments.Deploy("basics", "")
	if apperrors.CodeOf(err) != apperrors.CodeNoDeploymentSlots {
		t.Fatalf("err = %v, want no slots", err)
	}
	if got := len(f.states.State().Deployments.Active); got != 2 {
		t.Fatalf("active = %d, want 2", got)
	}
}

func TestRemoveDeployment(t *testing.T) {
	f := newFixture(t, deployableTree())
	removed := capture(f.bus, eventbus.TopicDeploymentRemoved)
	f.research.CompleteResearch("basics")
	depID, _ := f.deployments.Deploy("basics", "Prod")

	if err := f.deployments.Remove("nope"); apperrors.CodeOf(err) != apperrors.CodeDeploymentNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if err := f.deployments.Remove(depID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	state := f.states.State()
	if len(state.Deployments.Active) != 0 || len(state.Deployments.History) != 1 {
		t.Fatalf("deployments = %+v", state.Deployments)
	}
	if got := state.Resources.Computing.Efficiency; got != 1 {
		t.Fatalf("efficiency = %v, want 1", got)
	}
	if len(*removed) != 1 || (*removed)[0].(DeploymentNotice).Name != "Prod" {
		t.Fatalf("removed = %+v", *removed)
	}
}
