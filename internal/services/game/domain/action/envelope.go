package action

import (
	"encoding/json"
	"fmt"
)

// Envelope is the serialized form of an action.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decoder func(json.RawMessage) Action

var decoders = map[Type]decoder{
	TypeAdvanceTurn:           decodeAs[AdvanceTurn],
	TypeSetPhase:              decodeAs[SetPhase],
	TypeUpdateGameTime:        decodeAs[UpdateGameTime],
	TypeUpdateTimeCompression: decodeAs[UpdateTimeCompression],
	TypeAddTurnHistory:        decodeAs[AddTurnHistory],
	TypeSaveTurnHistory:       decodeAs[SaveTurnHistory],
	TypeMarkSaved:             decodeAs[MarkSaved],

	TypeGenerateResources:   decodeAs[GenerateResources],
	TypeAllocateComputing:   decodeAs[AllocateComputing],
	TypeDeallocateComputing: decodeAs[DeallocateComputing],
	TypeSpendResources:      decodeAs[SpendResources],
	TypeUpdateResource:      decodeAs[UpdateResource],
	TypeUpdateResourceCaps:  decodeAs[UpdateResourceCaps],
	TypeAcquireData:         decodeAs[AcquireData],
	TypeClaimData:           decodeAs[ClaimData],
	TypeReleaseData:         decodeAs[ReleaseData],

	TypeStartResearch:          decodeAs[StartResearch],
	TypeResearchStart:          decodeAs[StartResearch],
	TypeUpdateResearchProgress: decodeAs[UpdateResearchProgress],
	TypeCompleteResearch:       decodeAs[CompleteResearch],
	TypeResearchComplete:       decodeAs[CompleteResearch],
	TypeCancelResearch:         decodeAs[CancelResearch],
	TypeResearchCancel:         decodeAs[CancelResearch],
	TypeUnlockResearch:         decodeAs[UnlockResearch],

	TypeDeploySystem:           decodeAs[DeploySystem],
	TypeRemoveDeployment:       decodeAs[RemoveDeployment],
	TypeApplyDeploymentEffects: decodeAs[ApplyDeploymentEffects],

	TypeAddEvent:     decodeAs[AddEvent],
	TypeResolveEvent: decodeAs[ResolveEvent],

	TypeUpdateGlobalValues: decodeAs[UpdateGlobalValues],
	TypeUpdateRegion:       decodeAs[UpdateRegion],

	TypeUpdateCompetitor:  decodeAs[UpdateCompetitor],
	TypeUpdateCompetitors: decodeAs[UpdateCompetitors],

	TypeUpdateSettings: decodeAs[UpdateSettings],
}

// decodeAs fills as many payload fields as decode cleanly. Fields with the
// wrong shape stay at their zero value.
func decodeAs[T Action](payload json.RawMessage) Action {
	var v T
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &v)
	}
	return v
}

// Decode turns an envelope into a typed action. Alias names decode to the
// same type as their canonical name; unrecognized names decode to Unknown.
func Decode(env Envelope) Action {
	dec, ok := decoders[Type(env.Type)]
	if !ok {
		return Unknown{Name: env.Type}
	}
	return dec(env.Payload)
}

// DecodeJSON decodes a raw {"type", "payload"} document.
func DecodeJSON(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action envelope: %w", err)
	}
	return Decode(env), nil
}

// Encode produces the envelope for act under its canonical name.
func Encode(act Action) (Envelope, error) {
	if act == nil {
		return Envelope{}, fmt.Errorf("encode action: nil action")
	}
	if u, ok := act.(Unknown); ok {
		return Envelope{Type: u.Name}, nil
	}
	payload, err := json.Marshal(act)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode action %s: %w", act.Type(), err)
	}
	return Envelope{Type: string(act.Type()), Payload: payload}, nil
}

// Known reports whether name is a recognized wire name, aliases included.
func Known(name string) bool {
	_, ok := decoders[Type(name)]
	return ok
}
