package resource

import (
	"maps"
	"math"

	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

func generateComputing(c *Computing, turn int) *Computing {
	if c == nil {
		return c
	}
	next := *c
	next.Total = math.Min(c.Total+math.Max(c.Generation, 0), c.Cap)
	next.GenerationHistory = core.AppendBounded(c.GenerationHistory, GenerationEntry{
		Turn:   turn,
		Amount: next.Total - c.Total,
		Total:  next.Total,
	}, core.HistoryLimit)
	return &next
}

func allocate(c *Computing, target string, amount float64, turn int) *Computing {
	if c == nil || target == "" || !usable(amount) {
		return c
	}
	next := *c
	next.Allocated = maps.Clone(c.Allocated)
	if next.Allocated == nil {
		next.Allocated = map[string]float64{}
	}
	next.Allocated[target] += amount
	next.AllocationHistory = core.AppendBounded(c.AllocationHistory, AllocationEntry{
		Turn:   turn,
		Target: target,
		Amount: amount,
	}, core.HistoryLimit)
	return &next
}

// deallocate releases up to amount from target. An allocation that drops to
// zero or below is removed from the map.
func deallocate(c *Computing, target string, amount float64, turn int) *Computing {
	if c == nil || !usable(amount) {
		return c
	}
	current, ok := c.Allocated[target]
	if !ok {
		return c
	}
	released := math.Min(amount, current)
	next := *c
	next.Allocated = maps.Clone(c.Allocated)
	if remaining := current - amount; remaining <= 0 {
		delete(next.Allocated, target)
	} else {
		next.Allocated[target] = remaining
	}
	next.AllocationHistory = core.AppendBounded(c.AllocationHistory, AllocationEntry{
		Turn:   turn,
		Target: target,
		Amount: -released,
	}, core.HistoryLimit)
	return &next
}

func setComputingCap(c *Computing, limit float64) *Computing {
	if c == nil || limit < 0 || limit == c.Cap {
		return c
	}
	next := *c
	next.Cap = limit
	next.Total = math.Min(c.Total, limit)
	return &next
}

func updateComputingFields(c *Computing, fields map[string]float64) *Computing {
	if c == nil {
		return c
	}
	next := *c
	for key, value := range fields {
		switch key {
		case "total":
			next.Total = math.Max(value, 0)
		case "cap":
			next.Cap = math.Max(value, 0)
		case "generation":
			next.Generation = value
		case "efficiency":
			next.Efficiency = math.Max(value, 0)
		}
	}
	next.Total = math.Min(next.Total, next.Cap)
	if next.Total == c.Total && next.Cap == c.Cap && next.Generation == c.Generation && next.Efficiency == c.Efficiency {
		return c
	}
	return &next
}
