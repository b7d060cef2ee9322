package action

// UpdateGlobalValues overwrites named global scalars.
type UpdateGlobalValues struct {
	Values map[string]float64 `json:"values"`
}

func (UpdateGlobalValues) Type() Type { return TypeUpdateGlobalValues }

// UpdateRegion overwrites named scalars of one region, creating it if absent.
type UpdateRegion struct {
	ID     string             `json:"id"`
	Name   string             `json:"name,omitempty"`
	Fields map[string]float64 `json:"fields"`
}

func (UpdateRegion) Type() Type { return TypeUpdateRegion }

// UpdateCompetitor overwrites named fields of one competitor.
type UpdateCompetitor struct {
	ID     string             `json:"id"`
	Fields map[string]float64 `json:"fields"`
}

func (UpdateCompetitor) Type() Type { return TypeUpdateCompetitor }

// UpdateCompetitors runs one turn of competitor growth.
type UpdateCompetitors struct {
	Turn int `json:"turn"`
}

func (UpdateCompetitors) Type() Type { return TypeUpdateCompetitors }

// UpdateSettings changes user preferences. Nil fields are unchanged.
type UpdateSettings struct {
	AutoSave     *bool   `json:"autoSave,omitempty"`
	AutoSaveSlot *string `json:"autoSaveSlot,omitempty"`
	Difficulty   *string `json:"difficulty,omitempty"`
	TurnConfirm  *bool   `json:"turnConfirm,omitempty"`
	Language     *string `json:"language,omitempty"`
}

func (UpdateSettings) Type() Type { return TypeUpdateSettings }
