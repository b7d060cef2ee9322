package resource

import (
	"math"

	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

func generateFunding(f *Funding, turn int) *Funding {
	if f == nil {
		return f
	}
	net := f.Income - f.Expenses
	next := *f
	next.Current = f.Current + net
	next.History = core.AppendBounded(f.History, FundingEntry{
		Turn:    turn,
		Current: next.Current,
		Net:     net,
	}, core.HistoryLimit)
	return &next
}

// spendFunding debits current without a floor. A recurring spend also
// raises expenses so it is charged again on every generation step.
func spendFunding(f *Funding, amount float64, reason string, recurring bool, turn int) *Funding {
	if f == nil || !usable(amount) {
		return f
	}
	next := *f
	next.Current = f.Current - amount
	if recurring {
		next.Expenses = f.Expenses + amount
	}
	next.SpendingHistory = core.AppendBounded(f.SpendingHistory, SpendingEntry{
		Turn:      turn,
		Amount:    amount,
		Reason:    reason,
		Recurring: recurring,
	}, core.HistoryLimit)
	return &next
}

func setMaxReserves(f *Funding, limit float64) *Funding {
	if f == nil || limit < 0 || limit == f.MaxReserves {
		return f
	}
	next := *f
	next.MaxReserves = limit
	next.Reserves = math.Min(f.Reserves, limit)
	return &next
}

func updateFundingFields(f *Funding, fields map[string]float64) *Funding {
	if f == nil {
		return f
	}
	next := *f
	for key, value := range fields {
		switch key {
		case "current":
			next.Current = value
		case "income":
			next.Income = value
		case "expenses":
			next.Expenses = value
		case "reserves":
			next.Reserves = math.Max(value, 0)
		case "maxReserves":
			next.MaxReserves = math.Max(value, 0)
		}
	}
	if next.MaxReserves > 0 {
		next.Reserves = math.Min(next.Reserves, next.MaxReserves)
	}
	if next.Current == f.Current && next.Income == f.Income && next.Expenses == f.Expenses &&
		next.Reserves == f.Reserves && next.MaxReserves == f.MaxReserves {
		return f
	}
	return &next
}
