package action

import "github.com/louisbranch/singularity/internal/services/game/domain/core"

// AddEvent queues a narrative event for the player.
type AddEvent struct {
	Event core.EventSpec `json:"event"`
	Turn  int            `json:"turn,omitempty"`
}

func (AddEvent) Type() Type { return TypeAddEvent }

// ResolveEvent removes a queued event and records the choice taken.
type ResolveEvent struct {
	ID       string       `json:"id"`
	ChoiceID string       `json:"choiceId"`
	Outcome  core.Outcome `json:"outcome,omitempty"`
	Turn     int          `json:"turn,omitempty"`
}

func (ResolveEvent) Type() Type { return TypeResolveEvent }
