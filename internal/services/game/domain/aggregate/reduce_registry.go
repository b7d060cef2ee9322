package aggregate

import (
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/competitor"
	"github.com/louisbranch/singularity/internal/services/game/domain/deployment"
	"github.com/louisbranch/singularity/internal/services/game/domain/gameevent"
	"github.com/louisbranch/singularity/internal/services/game/domain/meta"
	"github.com/louisbranch/singularity/internal/services/game/domain/research"
	"github.com/louisbranch/singularity/internal/services/game/domain/resource"
	"github.com/louisbranch/singularity/internal/services/game/domain/settings"
	"github.com/louisbranch/singularity/internal/services/game/domain/world"
)

// reduceEntry maps the action types one slice owns to the function that
// reduces that slice. reduce writes the updated slice into next and
// reports whether its pointer changed.
type reduceEntry struct {
	slice  string
	types  func() []action.Type
	reduce func(current, next *State, act action.Action) bool
}

// sliceEntries is the declarative routing table for the eight slices.
// Adding a slice requires only adding an entry here.
func sliceEntries() []reduceEntry {
	return []reduceEntry{
		{
			slice: SliceMeta,
			types: meta.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Meta = meta.Reduce(current.Meta, act)
				return next.Meta != current.Meta
			},
		},
		{
			slice: SliceResources,
			types: resource.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Resources = resource.Reduce(current.Resources, act)
				return next.Resources != current.Resources
			},
		},
		{
			slice: SliceResearch,
			types: research.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Research = research.Reduce(current.Research, act)
				return next.Research != current.Research
			},
		},
		{
			slice: SliceDeployments,
			types: deployment.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Deployments = deployment.Reduce(current.Deployments, act)
				return next.Deployments != current.Deployments
			},
		},
		{
			slice: SliceEvents,
			types: gameevent.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Events = gameevent.Reduce(current.Events, act)
				return next.Events != current.Events
			},
		},
		{
			slice: SliceWorld,
			types: world.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.World = world.Reduce(current.World, act)
				return next.World != current.World
			},
		},
		{
			slice: SliceCompetitors,
			types: competitor.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Competitors = competitor.Reduce(current.Competitors, act)
				return next.Competitors != current.Competitors
			},
		},
		{
			slice: SliceSettings,
			types: settings.ReduceHandledTypes,
			reduce: func(current, next *State, act action.Action) bool {
				next.Settings = settings.Reduce(current.Settings, act)
				return next.Settings != current.Settings
			},
		},
	}
}
