package meta

import "github.com/louisbranch/singularity/internal/services/game/domain/core"

const (
	// BaseTimeScale is the number of days a turn covers before any
	// compression.
	BaseTimeScale = 90.0
	// MinTimeScale floors the days covered by one turn.
	MinTimeScale = 1.0
	// MaxCompressionFactor caps research-driven time compression.
	MaxCompressionFactor = 5.0

	DaysPerMonth  = 30
	MonthsPerYear = 12
)

// Organization is the player's archetype, fixed at game creation.
type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Archetype   string `json:"archetype"`
	Description string `json:"description,omitempty"`
}

// GameTime is the simulated calendar. Year, Quarter, Month, and Day are
// kept consistent by AdvanceCalendar; TimeScale is derived from
// CompressionFactor by the compression reducer only.
type GameTime struct {
	Year              int     `json:"year"`
	Quarter           int     `json:"quarter"`
	Month             int     `json:"month"`
	Day               int     `json:"day"`
	TimeScale         float64 `json:"timeScale"`
	CompressionFactor float64 `json:"compressionFactor"`
	DaysPassed        int     `json:"daysPassed"`
}

// TurnRecord is one entry in the bounded turn history.
type TurnRecord struct {
	Turn         int               `json:"turn"`
	Year         int               `json:"year"`
	Quarter      int               `json:"quarter"`
	Month        int               `json:"month"`
	Day          int               `json:"day"`
	DaysAdvanced int               `json:"daysAdvanced"`
	Timestamp    int64             `json:"timestamp,omitempty"`
	Summary      *core.TurnSummary `json:"summary,omitempty"`
}

// State is the meta slice.
type State struct {
	Turn         int          `json:"turn"`
	Phase        core.Phase   `json:"phase"`
	GameTime     GameTime     `json:"gameTime"`
	Organization Organization `json:"organization"`
	StartDate    int64        `json:"startDate"`
	LastSaved    int64        `json:"lastSaved,omitempty"`
	LastTurnAt   int64        `json:"lastTurnAt,omitempty"`
	TurnHistory  []TurnRecord `json:"turnHistory"`
}

// New returns the meta slice for a fresh game starting on January 1st of
// startYear.
func New(org Organization, startYear int, startDate int64) *State {
	return &State{
		Turn:         1,
		Phase:        core.PhaseStart,
		Organization: org,
		StartDate:    startDate,
		GameTime: GameTime{
			Year:              startYear,
			Quarter:           1,
			Month:             1,
			Day:               1,
			TimeScale:         BaseTimeScale,
			CompressionFactor: 1,
		},
		TurnHistory: []TurnRecord{},
	}
}
