package action

import "github.com/louisbranch/singularity/internal/services/game/domain/core"

// AdvanceTurn increments the turn counter.
type AdvanceTurn struct {
	Timestamp int64 `json:"timestamp,omitempty"`
}

func (AdvanceTurn) Type() Type { return TypeAdvanceTurn }

// SetPhase records the current turn phase.
type SetPhase struct {
	Phase core.Phase `json:"phase"`
}

func (SetPhase) Type() Type { return TypeSetPhase }

// UpdateGameTime replaces the calendar fields. Non-positive calendar fields
// keep their current value.
type UpdateGameTime struct {
	Year       int `json:"year,omitempty"`
	Quarter    int `json:"quarter,omitempty"`
	Month      int `json:"month,omitempty"`
	Day        int `json:"day,omitempty"`
	DaysPassed int `json:"daysPassed,omitempty"`
}

func (UpdateGameTime) Type() Type { return TypeUpdateGameTime }

// UpdateTimeCompression sets the compression factor and the derived time
// scale. A lower factor is ignored unless Reset is set.
type UpdateTimeCompression struct {
	Factor float64 `json:"factor"`
	Reset  bool    `json:"reset,omitempty"`
}

func (UpdateTimeCompression) Type() Type { return TypeUpdateTimeCompression }

// AddTurnHistory appends a calendar entry to the turn history.
type AddTurnHistory struct {
	Turn         int   `json:"turn"`
	Year         int   `json:"year"`
	Quarter      int   `json:"quarter"`
	Month        int   `json:"month"`
	Day          int   `json:"day"`
	DaysAdvanced int   `json:"daysAdvanced"`
	Timestamp    int64 `json:"timestamp,omitempty"`
}

func (AddTurnHistory) Type() Type { return TypeAddTurnHistory }

// SaveTurnHistory attaches the end-of-turn summary to the turn's entry.
type SaveTurnHistory struct {
	Turn      int              `json:"turn"`
	Summary   core.TurnSummary `json:"summary"`
	Timestamp int64            `json:"timestamp,omitempty"`
}

func (SaveTurnHistory) Type() Type { return TypeSaveTurnHistory }

// MarkSaved records when the session was last written to a save slot.
type MarkSaved struct {
	Timestamp int64 `json:"timestamp"`
}

func (MarkSaved) Type() Type { return TypeMarkSaved }
