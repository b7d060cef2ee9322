package core

// Faction names one of the five influence constituencies.
type Faction string

const (
	FactionAcademic   Faction = "academic"
	FactionIndustry   Faction = "industry"
	FactionGovernment Faction = "government"
	FactionPublic     Faction = "public"
	FactionOpenSource Faction = "openSource"
)

// Factions lists every faction in display order.
var Factions = []Faction{
	FactionAcademic,
	FactionIndustry,
	FactionGovernment,
	FactionPublic,
	FactionOpenSource,
}

// Valid reports whether f is a known faction.
func (f Faction) Valid() bool {
	for _, known := range Factions {
		if f == known {
			return true
		}
	}
	return false
}

// DataType names a category of training data.
type DataType string

const (
	DataText       DataType = "text"
	DataImage      DataType = "image"
	DataCode       DataType = "code"
	DataScientific DataType = "scientific"
	DataBehavioral DataType = "behavioral"
)

// ResourceKind names one of the four resource sub-trees.
type ResourceKind string

const (
	ResourceComputing ResourceKind = "computing"
	ResourceData      ResourceKind = "data"
	ResourceInfluence ResourceKind = "influence"
	ResourceFunding   ResourceKind = "funding"
)

// DataRequirement is a minimum amount and quality for one data type.
type DataRequirement struct {
	Amount  float64 `json:"amount,omitempty" yaml:"amount"`
	Quality float64 `json:"quality,omitempty" yaml:"quality"`
}

// DataCost names data access levels. As a requirement every listed tier,
// set, and type threshold must be held; as a spend the listed tiers and
// sets are revoked.
type DataCost struct {
	Tiers           []string                     `json:"tiers,omitempty" yaml:"tiers"`
	SpecializedSets []string                     `json:"specializedSets,omitempty" yaml:"specializedSets"`
	Types           map[DataType]DataRequirement `json:"types,omitempty" yaml:"types"`
}

// Empty reports whether the data cost names nothing.
func (d *DataCost) Empty() bool {
	return d == nil || (len(d.Tiers) == 0 && len(d.SpecializedSets) == 0 && len(d.Types) == 0)
}

// Cost is a resource cost. Every category is optional; a zero Cost is free.
type Cost struct {
	Computing float64             `json:"computing,omitempty" yaml:"computing"`
	Funding   float64             `json:"funding,omitempty" yaml:"funding"`
	Influence map[Faction]float64 `json:"influence,omitempty" yaml:"influence"`
	Data      *DataCost           `json:"data,omitempty" yaml:"data"`
}

// IsZero reports whether the cost has no populated category.
func (c Cost) IsZero() bool {
	if c.Computing > 0 || c.Funding > 0 {
		return false
	}
	for _, amount := range c.Influence {
		if amount > 0 {
			return false
		}
	}
	return c.Data.Empty()
}

// WithoutData returns the cost with its data category removed.
func (c Cost) WithoutData() Cost {
	c.Data = nil
	return c
}
