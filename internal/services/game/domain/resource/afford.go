package resource

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

// CheckCost reports the first category of cost that s cannot cover. It
// returns nil when every populated category is affordable; an empty cost
// is always affordable.
func CheckCost(s *State, cost core.Cost) error {
	if !s.Complete() {
		return apperrors.New(apperrors.CodeUnknown, "resources not initialized")
	}
	if cost.Computing > 0 {
		available := s.Computing.Available()
		if available < cost.Computing {
			return apperrors.WithMetadata(apperrors.CodeInsufficientComputing, "insufficient computing", map[string]string{
				"Required":  formatAmount(cost.Computing),
				"Available": formatAmount(available),
			})
		}
	}
	if cost.Funding > 0 && s.Funding.Current < cost.Funding {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunding, "insufficient funding", map[string]string{
			"Required":  formatAmount(cost.Funding),
			"Available": formatAmount(s.Funding.Current),
		})
	}
	for _, f := range core.Factions {
		required, ok := cost.Influence[f]
		if !ok || required <= 0 {
			continue
		}
		if have := s.Influence.Get(f); have < required {
			return apperrors.WithMetadata(apperrors.CodeInsufficientInfluence, "insufficient influence", map[string]string{
				"Faction":   string(f),
				"Required":  formatAmount(required),
				"Available": formatAmount(have),
			})
		}
	}
	return checkData(s.Data, cost.Data)
}

func checkData(d *Data, cost *core.DataCost) error {
	if cost.Empty() {
		return nil
	}
	var missing []string
	for _, tier := range cost.Tiers {
		if d == nil || !d.Tiers[tier] {
			missing = append(missing, "tier "+tier)
		}
	}
	for _, set := range cost.SpecializedSets {
		if d == nil || !d.SpecializedSets[set] {
			missing = append(missing, "set "+set)
		}
	}
	if len(missing) > 0 {
		return apperrors.WithMetadata(apperrors.CodeMissingDataAccess, "missing data access", map[string]string{
			"Access": strings.Join(missing, ", "),
		})
	}
	kinds := make([]string, 0, len(cost.Types))
	for kind := range cost.Types {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		req := cost.Types[core.DataType(kind)]
		var rec DataRecord
		if d != nil {
			rec = d.Types[core.DataType(kind)]
		}
		if rec.Amount < req.Amount || rec.Quality < req.Quality {
			return apperrors.WithMetadata(apperrors.CodeInsufficientData, "insufficient data", map[string]string{
				"Type": kind,
			})
		}
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
