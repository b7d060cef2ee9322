package action

import "github.com/louisbranch/singularity/internal/services/game/domain/core"

// DeploySystem puts a live system into a free deployment slot.
type DeploySystem struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	ResearchID string       `json:"researchId,omitempty"`
	Effects    core.Effects `json:"effects,omitempty"`
	Turn       int          `json:"turn,omitempty"`
}

func (DeploySystem) Type() Type { return TypeDeploySystem }

// RemoveDeployment retires a live system into the deployment history.
type RemoveDeployment struct {
	ID   string `json:"id"`
	Turn int    `json:"turn,omitempty"`
}

func (RemoveDeployment) Type() Type { return TypeRemoveDeployment }

// ApplyDeploymentEffects ages every live system by one turn.
type ApplyDeploymentEffects struct {
	Turn int `json:"turn,omitempty"`
}

func (ApplyDeploymentEffects) Type() Type { return TypeApplyDeploymentEffects }
