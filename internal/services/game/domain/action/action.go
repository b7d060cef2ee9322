package action

// Type is the wire name of an action.
type Type string

// Action is a described state transition.
type Action interface {
	Type() Type
}

const (
	TypeAdvanceTurn           Type = "ADVANCE_TURN"
	TypeSetPhase              Type = "SET_PHASE"
	TypeUpdateGameTime        Type = "UPDATE_GAME_TIME"
	TypeUpdateTimeCompression Type = "UPDATE_TIME_COMPRESSION"
	TypeAddTurnHistory        Type = "ADD_TURN_HISTORY"
	TypeSaveTurnHistory       Type = "SAVE_TURN_HISTORY"
	TypeMarkSaved             Type = "MARK_SAVED"

	TypeGenerateResources   Type = "GENERATE_RESOURCES"
	TypeAllocateComputing   Type = "ALLOCATE_COMPUTING"
	TypeDeallocateComputing Type = "DEALLOCATE_COMPUTING"
	TypeSpendResources      Type = "SPEND_RESOURCES"
	TypeUpdateResource      Type = "UPDATE_RESOURCE"
	TypeUpdateResourceCaps  Type = "UPDATE_RESOURCE_CAPS"
	TypeAcquireData         Type = "ACQUIRE_DATA"
	TypeClaimData           Type = "CLAIM_DATA"
	TypeReleaseData         Type = "RELEASE_DATA"

	TypeStartResearch          Type = "START_RESEARCH"
	TypeUpdateResearchProgress Type = "UPDATE_RESEARCH_PROGRESS"
	TypeCompleteResearch       Type = "COMPLETE_RESEARCH"
	TypeCancelResearch         Type = "CANCEL_RESEARCH"
	TypeUnlockResearch         Type = "UNLOCK_RESEARCH"

	TypeDeploySystem           Type = "DEPLOY_SYSTEM"
	TypeRemoveDeployment       Type = "REMOVE_DEPLOYMENT"
	TypeApplyDeploymentEffects Type = "APPLY_DEPLOYMENT_EFFECTS"

	TypeAddEvent     Type = "ADD_EVENT"
	TypeResolveEvent Type = "RESOLVE_EVENT"

	TypeUpdateGlobalValues Type = "UPDATE_GLOBAL_VALUES"
	TypeUpdateRegion       Type = "UPDATE_REGION"

	TypeUpdateCompetitor  Type = "UPDATE_COMPETITOR"
	TypeUpdateCompetitors Type = "UPDATE_COMPETITORS"

	TypeUpdateSettings Type = "UPDATE_SETTINGS"
)

// Alias wire names accepted by Decode.
const (
	TypeResearchStart    Type = "RESEARCH_START"
	TypeResearchComplete Type = "RESEARCH_COMPLETE"
	TypeResearchCancel   Type = "RESEARCH_CANCEL"
)

// Unknown carries a wire name nothing recognizes. Reducers return their
// input unchanged for it.
type Unknown struct {
	Name string `json:"-"`
}

func (a Unknown) Type() Type { return Type(a.Name) }
