// Package content loads the static game dataset: the research tree, the
// narrative event catalog, and the starting world. The default dataset is
// embedded; a directory with the same file names can replace it.
package content

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/competitor"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/domain/meta"
	"github.com/louisbranch/singularity/internal/services/game/domain/research"
	"github.com/louisbranch/singularity/internal/services/game/domain/world"
)

const (
	researchFile = "research.yaml"
	eventsFile   = "events.yaml"
	worldFile    = "world.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Trigger holds the conditions under which a catalog event fires. Every
// set condition must hold. Cooldown is the number of turns a repeatable
// event waits after being resolved before it can fire again.
type Trigger struct {
	MinTurn          int      `yaml:"minTurn" json:"minTurn,omitempty"`
	MinYear          int      `yaml:"minYear" json:"minYear,omitempty"`
	RequiresResearch []string `yaml:"requiresResearch" json:"requiresResearch,omitempty"`
	Cooldown         int      `yaml:"cooldown" json:"cooldown,omitempty"`
}

// EventEntry is a catalog event with its trigger.
type EventEntry struct {
	core.EventSpec `yaml:",inline"`
	Trigger        Trigger `yaml:"trigger" json:"trigger"`
}

// World is the starting world.
type World struct {
	Organization meta.Organization       `yaml:"organization"`
	Globals      map[string]float64      `yaml:"globals"`
	Regions      []world.Region          `yaml:"regions"`
	Competitors  []competitor.Competitor `yaml:"competitors"`
}

// Catalog is the full static dataset.
type Catalog struct {
	Research []research.Definition
	Events   []EventEntry
	World    World
}

type researchDoc struct {
	Nodes []research.Definition `yaml:"nodes"`
}

type eventsDoc struct {
	Events []EventEntry `yaml:"events"`
}

// Default parses the embedded dataset. Each call returns a fresh copy.
func Default() (Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Catalog{}, fmt.Errorf("open embedded content: %w", err)
	}
	return Load(sub)
}

// Load parses a dataset from fsys and validates it.
func Load(fsys fs.FS) (Catalog, error) {
	var rdoc researchDoc
	if err := decodeFile(fsys, researchFile, &rdoc); err != nil {
		return Catalog{}, err
	}
	var edoc eventsDoc
	if err := decodeFile(fsys, eventsFile, &edoc); err != nil {
		return Catalog{}, err
	}
	var w World
	if err := decodeFile(fsys, worldFile, &w); err != nil {
		return Catalog{}, err
	}
	cat := Catalog{Research: rdoc.Nodes, Events: edoc.Events, World: w}
	if err := Validate(cat); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func decodeFile(fsys fs.FS, name string, target any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Options returns the new-game options described by the catalog.
func (c Catalog) Options(startYear int, startDate int64) aggregate.Options {
	return aggregate.Options{
		Organization: c.World.Organization,
		StartYear:    startYear,
		StartDate:    startDate,
		Research:     c.Research,
		Competitors:  c.World.Competitors,
		Globals:      c.World.Globals,
		Regions:      c.World.Regions,
	}
}

// ResearchByID indexes the research tree.
func (c Catalog) ResearchByID() map[string]research.Definition {
	out := make(map[string]research.Definition, len(c.Research))
	for _, def := range c.Research {
		out[def.ID] = def
	}
	return out
}
