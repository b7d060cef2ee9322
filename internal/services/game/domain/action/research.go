package action

// StartResearch moves an unlocked node into active research.
type StartResearch struct {
	ID               string  `json:"id"`
	ComputeAllocated float64 `json:"computeAllocated,omitempty"`
	Turn             int     `json:"turn,omitempty"`
}

func (StartResearch) Type() Type { return TypeStartResearch }

// UpdateResearchProgress advances every active node by one resolution step.
type UpdateResearchProgress struct {
	Turn int `json:"turn,omitempty"`
}

func (UpdateResearchProgress) Type() Type { return TypeUpdateResearchProgress }

// CompleteResearch marks a node completed regardless of progress.
type CompleteResearch struct {
	ID   string `json:"id"`
	Turn int    `json:"turn,omitempty"`
}

func (CompleteResearch) Type() Type { return TypeCompleteResearch }

// CancelResearch returns an active node to the unlocked set.
type CancelResearch struct {
	ID string `json:"id"`
}

func (CancelResearch) Type() Type { return TypeCancelResearch }

// UnlockResearch makes nodes available to start.
type UnlockResearch struct {
	IDs []string `json:"ids"`
}

func (UnlockResearch) Type() Type { return TypeUnlockResearch }
