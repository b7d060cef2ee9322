package meta

import (
	"slices"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{
		action.TypeAdvanceTurn,
		action.TypeSetPhase,
		action.TypeUpdateGameTime,
		action.TypeUpdateTimeCompression,
		action.TypeAddTurnHistory,
		action.TypeSaveTurnHistory,
		action.TypeMarkSaved,
	}
}

// Reduce applies an action to the meta slice. It returns s itself when the
// action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.AdvanceTurn:
		next := *s
		next.Turn = s.Turn + 1
		if a.Timestamp > 0 {
			next.LastTurnAt = a.Timestamp
		}
		return &next
	case action.SetPhase:
		if !a.Phase.Valid() || a.Phase == s.Phase {
			return s
		}
		next := *s
		next.Phase = a.Phase
		return &next
	case action.UpdateGameTime:
		return updateGameTime(s, a)
	case action.UpdateTimeCompression:
		return updateCompression(s, a)
	case action.AddTurnHistory:
		next := *s
		next.TurnHistory = core.AppendBounded(s.TurnHistory, TurnRecord{
			Turn:         a.Turn,
			Year:         a.Year,
			Quarter:      a.Quarter,
			Month:        a.Month,
			Day:          a.Day,
			DaysAdvanced: a.DaysAdvanced,
			Timestamp:    a.Timestamp,
		}, core.HistoryLimit)
		return &next
	case action.SaveTurnHistory:
		return saveTurnSummary(s, a)
	case action.MarkSaved:
		if a.Timestamp == s.LastSaved {
			return s
		}
		next := *s
		next.LastSaved = a.Timestamp
		return &next
	}
	return s
}

func updateGameTime(s *State, a action.UpdateGameTime) *State {
	gt := s.GameTime
	if a.Year > 0 {
		gt.Year = a.Year
	}
	if a.Month >= 1 && a.Month <= MonthsPerYear {
		gt.Month = a.Month
		gt.Quarter = QuarterOf(a.Month)
	} else if a.Quarter >= 1 && a.Quarter <= 4 {
		gt.Quarter = a.Quarter
	}
	if a.Day >= 1 && a.Day <= DaysPerMonth {
		gt.Day = a.Day
	}
	if a.DaysPassed > gt.DaysPassed {
		gt.DaysPassed = a.DaysPassed
	}
	if gt == s.GameTime {
		return s
	}
	next := *s
	next.GameTime = gt
	return &next
}

func updateCompression(s *State, a action.UpdateTimeCompression) *State {
	factor := ClampCompression(a.Factor)
	current := s.GameTime.CompressionFactor
	if !a.Reset && factor < current {
		return s
	}
	if factor == current && s.GameTime.TimeScale == TimeScaleFor(factor) {
		return s
	}
	next := *s
	next.GameTime.CompressionFactor = factor
	next.GameTime.TimeScale = TimeScaleFor(factor)
	return &next
}

func saveTurnSummary(s *State, a action.SaveTurnHistory) *State {
	summary := a.Summary
	idx := slices.IndexFunc(s.TurnHistory, func(r TurnRecord) bool { return r.Turn == a.Turn })
	next := *s
	if idx < 0 {
		next.TurnHistory = core.AppendBounded(s.TurnHistory, TurnRecord{
			Turn:      a.Turn,
			Timestamp: a.Timestamp,
			Summary:   &summary,
		}, core.HistoryLimit)
		return &next
	}
	history := slices.Clone(s.TurnHistory)
	history[idx].Summary = &summary
	if a.Timestamp > 0 {
		history[idx].Timestamp = a.Timestamp
	}
	next.TurnHistory = history
	return &next
}
