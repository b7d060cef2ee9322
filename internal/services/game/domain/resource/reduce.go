package resource

import (
	"math"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{
		action.TypeGenerateResources,
		action.TypeAllocateComputing,
		action.TypeDeallocateComputing,
		action.TypeSpendResources,
		action.TypeUpdateResource,
		action.TypeUpdateResourceCaps,
		action.TypeAcquireData,
		action.TypeClaimData,
		action.TypeReleaseData,
	}
}

// Reduce applies an action to the resources slice. It returns s itself
// when the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.GenerateResources:
		return s.with(
			generateComputing(s.Computing, a.Turn),
			generateData(s.Data),
			generateInfluence(s.Influence, a.Influence, a.Turn),
			generateFunding(s.Funding, a.Turn),
		)
	case action.AllocateComputing:
		return s.with(allocate(s.Computing, a.Target, a.Amount, a.Turn), s.Data, s.Influence, s.Funding)
	case action.DeallocateComputing:
		return s.with(deallocate(s.Computing, a.Target, a.Amount, a.Turn), s.Data, s.Influence, s.Funding)
	case action.SpendResources:
		reason := a.Reason
		if reason == "" {
			reason = "spend"
		}
		return s.with(
			allocate(s.Computing, reason, a.Cost.Computing, a.Turn),
			revokeData(s.Data, a.Cost.Data),
			spendInfluence(s.Influence, a.Cost.Influence),
			spendFunding(s.Funding, a.Cost.Funding, reason, a.Recurring, a.Turn),
		)
	case action.UpdateResource:
		return updateResource(s, a)
	case action.UpdateResourceCaps:
		computing := s.Computing
		if a.ComputingCap != nil {
			computing = setComputingCap(s.Computing, *a.ComputingCap)
		}
		funding := s.Funding
		if a.MaxReserves != nil {
			funding = setMaxReserves(s.Funding, *a.MaxReserves)
		}
		return s.with(computing, s.Data, s.Influence, funding)
	case action.AcquireData:
		return s.with(s.Computing, acquireData(s.Data, a), s.Influence, s.Funding)
	case action.ClaimData:
		return s.with(s.Computing, claimData(s.Data, a.DataType, a.Claimant), s.Influence, s.Funding)
	case action.ReleaseData:
		return s.with(s.Computing, releaseData(s.Data, a.DataType, a.Claimant), s.Influence, s.Funding)
	}
	return s
}

// with assembles a new slice from sub-resources, returning s when every
// sub-resource pointer is unchanged.
func (s *State) with(c *Computing, d *Data, i *Influence, f *Funding) *State {
	if c == s.Computing && d == s.Data && i == s.Influence && f == s.Funding {
		return s
	}
	return &State{Computing: c, Data: d, Influence: i, Funding: f}
}

func updateResource(s *State, a action.UpdateResource) *State {
	if len(a.Fields) == 0 {
		return s
	}
	switch a.Resource {
	case core.ResourceComputing:
		return s.with(updateComputingFields(s.Computing, a.Fields), s.Data, s.Influence, s.Funding)
	case core.ResourceData:
		return s.with(s.Computing, updateDataFields(s.Data, a.Fields), s.Influence, s.Funding)
	case core.ResourceInfluence:
		return s.with(s.Computing, s.Data, updateInfluenceFields(s.Influence, a.Fields), s.Funding)
	case core.ResourceFunding:
		return s.with(s.Computing, s.Data, s.Influence, updateFundingFields(s.Funding, a.Fields))
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// usable reports whether an amount is a positive finite number.
func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
