package systems

import (
	"testing"

	"github.com/louisbranch/singularity/internal/platform/id"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/research"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"github.com/louisbranch/singularity/internal/services/game/statemanager"
)

type fixture struct {
	bus         *eventbus.Bus
	states      *statemanager.Manager
	resources   *ResourceSystem
	research    *ResearchSystem
	deployments *DeploymentSystem
}

func newFixture(t *testing.T, opts aggregate.Options) *fixture {
	t.Helper()
	bus := eventbus.New()
	states := statemanager.New(aggregate.NewInitialState(opts), bus)
	resources := NewResourceSystem(states, bus)
	f := &fixture{
		bus:         bus,
		states:      states,
		resources:   resources,
		research:    NewResearchSystem(states, bus, resources),
		deployments: NewDeploymentSystem(states, bus, WithIDGenerator(id.Sequence("dep"))),
	}
	resources.Start()
	f.research.Start()
	t.Cleanup(func() {
		f.research.Stop()
		resources.Stop()
	})
	return f
}

// capture records every payload emitted on topic.
func capture(bus *eventbus.Bus, topic eventbus.Topic) *[]any {
	var got []any
	bus.Subscribe(topic, func(evt eventbus.Event) error {
		got = append(got, evt.Data)
		return nil
	}, "test")
	return &got
}

func testTree() []research.Definition {
	return []research.Definition{
		{ID: "basics", Name: "Basics", RequiredProgress: 4},
		{ID: "nets", Name: "Nets", Prerequisites: []string{"basics"}, RequiredProgress: 4},
		{ID: "attention", Name: "Attention", Prerequisites: []string{"basics"}, RequiredProgress: 2, Breakthrough: true},
	}
}
