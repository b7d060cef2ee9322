package action

import "github.com/louisbranch/singularity/internal/services/game/domain/core"

// GenerateResources runs the once-per-turn generation step.
type GenerateResources struct {
	Turn      int                      `json:"turn,omitempty"`
	Influence map[core.Faction]float64 `json:"influence,omitempty"`
}

func (GenerateResources) Type() Type { return TypeGenerateResources }

// AllocateComputing assigns computing to a target.
type AllocateComputing struct {
	Target string  `json:"target"`
	Amount float64 `json:"amount"`
	Turn   int     `json:"turn,omitempty"`
}

func (AllocateComputing) Type() Type { return TypeAllocateComputing }

// DeallocateComputing releases computing from a target.
type DeallocateComputing struct {
	Target string  `json:"target"`
	Amount float64 `json:"amount"`
	Turn   int     `json:"turn,omitempty"`
}

func (DeallocateComputing) Type() Type { return TypeDeallocateComputing }

// SpendResources debits every populated category of Cost.
type SpendResources struct {
	Cost      core.Cost `json:"cost"`
	Reason    string    `json:"reason,omitempty"`
	Recurring bool      `json:"recurring,omitempty"`
	Turn      int       `json:"turn,omitempty"`
}

func (SpendResources) Type() Type { return TypeSpendResources }

// UpdateResource overwrites named numeric fields of one resource.
// Data fields are addressed as "<type>.<field>".
type UpdateResource struct {
	Resource core.ResourceKind  `json:"resource"`
	Fields   map[string]float64 `json:"fields"`
}

func (UpdateResource) Type() Type { return TypeUpdateResource }

// UpdateResourceCaps changes resource ceilings. Nil fields are unchanged.
type UpdateResourceCaps struct {
	ComputingCap *float64 `json:"computingCap,omitempty"`
	MaxReserves  *float64 `json:"maxReserves,omitempty"`
}

func (UpdateResourceCaps) Type() Type { return TypeUpdateResourceCaps }

// AcquireData adds data of one type and optionally grants access levels.
type AcquireData struct {
	DataType       core.DataType `json:"dataType"`
	Amount         float64       `json:"amount"`
	Quality        float64       `json:"quality,omitempty"`
	Source         string        `json:"source,omitempty"`
	Tier           string        `json:"tier,omitempty"`
	SpecializedSet string        `json:"specializedSet,omitempty"`
	Turn           int           `json:"turn,omitempty"`
}

func (AcquireData) Type() Type { return TypeAcquireData }

// ClaimData marks a data type as in use by a claimant.
type ClaimData struct {
	DataType core.DataType `json:"dataType"`
	Claimant string        `json:"claimant"`
}

func (ClaimData) Type() Type { return TypeClaimData }

// ReleaseData removes a claimant from a data type.
type ReleaseData struct {
	DataType core.DataType `json:"dataType"`
	Claimant string        `json:"claimant"`
}

func (ReleaseData) Type() Type { return TypeReleaseData }
