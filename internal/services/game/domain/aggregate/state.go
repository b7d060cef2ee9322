// Package aggregate assembles the eight game-state slices into the root
// state and routes actions to the slice that owns them.
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

// State is the root game state. It is never written after construction:
// Reduce returns a new root whose untouched slice pointers are shared with
// the previous one.
type State struct {
	Meta        *meta.State       `json:"meta"`
	Resources   *resource.State   `json:"resources"`
	Research    *research.State   `json:"research"`
	Deployments *deployment.State `json:"deployments"`
	Events      *gameevent.State  `json:"events"`
	World       *world.State      `json:"world"`
	Competitors *competitor.State `json:"competitors"`
	Settings    *settings.State   `json:"settings"`
}

// Complete reports whether every slice and every resource sub-tree is
// present. A decoded save missing one is incomplete.
func (s *State) Complete() bool {
	return s != nil && s.Meta != nil && s.Resources.Complete() && s.Research != nil &&
		s.Deployments != nil && s.Events != nil && s.World != nil &&
		s.Competitors != nil && s.Settings != nil
}
