package aggregate

import (
	"github.com/louisbranch/singularity/internal/services/game/domain/competitor"
	"github.com/louisbranch/singularity/internal/services/game/domain/deployment"
	"github.com/louisbranch/singularity/internal/services/game/domain/gameevent"
	"github.com/louisbranch/singularity/internal/services/game/domain/meta"
	"github.com/louisbranch/singularity/internal/services/game/domain/research"
	"github.com/louisbranch/singularity/internal/services/game/domain/resource"
	"github.com/louisbranch/singularity/internal/services/game/domain/settings"
	"github.com/louisbranch/singularity/internal/services/game/domain/world"
)

// DefaultStartYear is the calendar year of turn 1.
const DefaultStartYear = 2025

// Options configures a new game. The zero value is a valid empty game.
type Options struct {
	Organization    meta.Organization
	StartYear       int
	StartDate       int64
	Research        []research.Definition
	Competitors     []competitor.Competitor
	Globals         map[string]float64
	Regions         []world.Region
	DeploymentSlots int
}

// NewInitialState builds the starting state. It reads no clock and no
// randomness, so equal options produce equal states.
func NewInitialState(opts Options) *State {
	year := opts.StartYear
	if year <= 0 {
		year = DefaultStartYear
	}
	org := opts.Organization
	if org.ID == "" {
		org = meta.Organization{ID: "lab", Name: "Independent Lab", Archetype: "startup"}
	}
	return &State{
		Meta:        meta.New(org, year, opts.StartDate),
		Resources:   resource.New(),
		Research:    research.New(opts.Research),
		Deployments: deployment.New(opts.DeploymentSlots),
		Events:      gameevent.New(),
		World:       world.New(opts.Globals, opts.Regions),
		Competitors: competitor.New(opts.Competitors),
		Settings:    settings.New(),
	}
}
