package resource

import "github.com/louisbranch/singularity/internal/services/game/domain/core"

const (
	// MinQuality floors data quality under decay.
	MinQuality = 0.1
	// MaxQuality caps data quality.
	MaxQuality = 1.0
	// MaxInfluence caps every faction's influence on generation.
	MaxInfluence = 100.0
)

// AllocationEntry records one allocation change. Amount is negative for
// releases.
type AllocationEntry struct {
	Turn   int     `json:"turn"`
	Target string  `json:"target"`
	Amount float64 `json:"amount"`
}

// GenerationEntry records one computing generation step.
type GenerationEntry struct {
	Turn   int     `json:"turn"`
	Amount float64 `json:"amount"`
	Total  float64 `json:"total"`
}

// Computing is the computing sub-resource.
type Computing struct {
	Total             float64            `json:"total"`
	Cap               float64            `json:"cap"`
	Allocated         map[string]float64 `json:"allocated"`
	Generation        float64            `json:"generation"`
	Efficiency        float64            `json:"efficiency"`
	AllocationHistory []AllocationEntry  `json:"allocationHistory"`
	GenerationHistory []GenerationEntry  `json:"generationHistory"`
}

// AllocatedTotal sums every allocation.
func (c *Computing) AllocatedTotal() float64 {
	if c == nil {
		return 0
	}
	sum := 0.0
	for _, amount := range c.Allocated {
		sum += amount
	}
	return sum
}

// Available is the unallocated computing.
func (c *Computing) Available() float64 {
	if c == nil {
		return 0
	}
	return c.Total - c.AllocatedTotal()
}

// DataRecord holds one data type.
type DataRecord struct {
	Amount         float64  `json:"amount"`
	Quality        float64  `json:"quality"`
	DecayRate      float64  `json:"decayRate"`
	GenerationRate float64  `json:"generationRate"`
	Sources        []string `json:"sources"`
	InUse          []string `json:"inUse"`
}

// AcquisitionEntry records one data acquisition.
type AcquisitionEntry struct {
	Turn     int           `json:"turn"`
	DataType core.DataType `json:"dataType"`
	Amount   float64       `json:"amount"`
	Quality  float64       `json:"quality"`
	Source   string        `json:"source,omitempty"`
}

// Data is the data sub-resource.
type Data struct {
	Types              map[core.DataType]DataRecord `json:"types"`
	Tiers              map[string]bool              `json:"tiers"`
	SpecializedSets    map[string]bool              `json:"specializedSets"`
	AcquisitionHistory []AcquisitionEntry           `json:"acquisitionHistory"`
}

// InfluenceEntry records faction levels after a generation step.
type InfluenceEntry struct {
	Turn   int                      `json:"turn"`
	Levels map[core.Faction]float64 `json:"levels"`
}

// Influence is the influence sub-resource.
type Influence struct {
	Academic   float64          `json:"academic"`
	Industry   float64          `json:"industry"`
	Government float64          `json:"government"`
	Public     float64          `json:"public"`
	OpenSource float64          `json:"openSource"`
	History    []InfluenceEntry `json:"history"`
}

// Get returns a faction's influence.
func (i *Influence) Get(f core.Faction) float64 {
	if i == nil {
		return 0
	}
	switch f {
	case core.FactionAcademic:
		return i.Academic
	case core.FactionIndustry:
		return i.Industry
	case core.FactionGovernment:
		return i.Government
	case core.FactionPublic:
		return i.Public
	case core.FactionOpenSource:
		return i.OpenSource
	}
	return 0
}

// set writes a faction's influence. Only call on a copy.
func (i *Influence) set(f core.Faction, v float64) {
	switch f {
	case core.FactionAcademic:
		i.Academic = v
	case core.FactionIndustry:
		i.Industry = v
	case core.FactionGovernment:
		i.Government = v
	case core.FactionPublic:
		i.Public = v
	case core.FactionOpenSource:
		i.OpenSource = v
	}
}

// Levels returns every faction's influence keyed by faction.
func (i *Influence) Levels() map[core.Faction]float64 {
	levels := make(map[core.Faction]float64, len(core.Factions))
	for _, f := range core.Factions {
		levels[f] = i.Get(f)
	}
	return levels
}

// FundingEntry records funding after a generation step.
type FundingEntry struct {
	Turn    int     `json:"turn"`
	Current float64 `json:"current"`
	Net     float64 `json:"net"`
}

// SpendingEntry records one funding debit.
type SpendingEntry struct {
	Turn      int     `json:"turn"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
	Recurring bool    `json:"recurring,omitempty"`
}

// Funding is the funding sub-resource. Current may go negative.
type Funding struct {
	Current         float64         `json:"current"`
	Income          float64         `json:"income"`
	Expenses        float64         `json:"expenses"`
	Reserves        float64         `json:"reserves"`
	MaxReserves     float64         `json:"maxReserves"`
	History         []FundingEntry  `json:"history"`
	SpendingHistory []SpendingEntry `json:"spendingHistory"`
}

// State is the resources slice. Each sub-resource is replaced on its own
// and shared with the previous state when untouched.
type State struct {
	Computing *Computing `json:"computing"`
	Data      *Data      `json:"data"`
	Influence *Influence `json:"influence"`
	Funding   *Funding   `json:"funding"`
}

// Complete reports whether all four sub-resources are present.
func (s *State) Complete() bool {
	return s != nil && s.Computing != nil && s.Data != nil && s.Influence != nil && s.Funding != nil
}

// New returns the starting resources.
func New() *State {
	return &State{
		Computing: &Computing{
			Total:             50,
			Cap:               100,
			Allocated:         map[string]float64{},
			Generation:        5,
			Efficiency:        1,
			AllocationHistory: []AllocationEntry{},
			GenerationHistory: []GenerationEntry{},
		},
		Data: &Data{
			Types: map[core.DataType]DataRecord{
				core.DataText: {Amount: 10, Quality: 0.5, DecayRate: 0.01, Sources: []string{"public"}, InUse: []string{}},
			},
			Tiers:              map[string]bool{"basic": true},
			SpecializedSets:    map[string]bool{},
			AcquisitionHistory: []AcquisitionEntry{},
		},
		Influence: &Influence{
			Academic:   10,
			Industry:   10,
			Government: 5,
			Public:     5,
			OpenSource: 10,
			History:    []InfluenceEntry{},
		},
		Funding: &Funding{
			Current:         1000,
			Income:          100,
			Expenses:        80,
			MaxReserves:     5000,
			History:         []FundingEntry{},
			SpendingHistory: []SpendingEntry{},
		},
	}
}
