package core

// Outcome is the set of deltas applied when an event choice is taken.
type Outcome struct {
	Funding   float64             `json:"funding,omitempty" yaml:"funding"`
	Computing float64             `json:"computing,omitempty" yaml:"computing"`
	Influence map[Faction]float64 `json:"influence,omitempty" yaml:"influence"`
	Globals   map[string]float64  `json:"globals,omitempty" yaml:"globals"`
}

// Choice is one option offered by a game event.
type Choice struct {
	ID      string  `json:"id" yaml:"id"`
	Label   string  `json:"label" yaml:"label"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
}

// EventSpec is the static description of a narrative game event.
type EventSpec struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Category    string   `json:"category,omitempty" yaml:"category"`
	OneShot     bool     `json:"oneShot,omitempty" yaml:"oneShot"`
	Choices     []Choice `json:"choices,omitempty" yaml:"choices"`
}

// Choice returns the option with the given id.
func (e EventSpec) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// TurnSummary is the resource snapshot recorded at the end of a turn.
type TurnSummary struct {
	Funding            float64 `json:"funding"`
	Computing          float64 `json:"computing"`
	ComputingAllocated float64 `json:"computingAllocated"`
	ActiveResearch     int     `json:"activeResearch"`
	CompletedResearch  int     `json:"completedResearch"`
	ActiveDeployments  int     `json:"activeDeployments"`
	PendingEvents      int     `json:"pendingEvents"`
}
