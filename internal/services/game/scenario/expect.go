package scenario

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
)

const tolerance = 1e-6

// Expect checks state against an expectation table and returns every
// mismatch. Recognized keys:
//
//	turn, year, quarter, month, day   exact calendar values
//	phase                             turn phase name
//	completed, active, unlocked       research ids, in any order
//	pending_events                    queued event ids, in any order
//	deployments                       number of live deployments
//	funding, computing, allocated     exact amounts
//	min_funding, max_funding          funding bounds
//	compression, efficiency           compression factor and computing efficiency
//	globals                           table of world global values
func Expect(state *aggregate.State, want map[string]any) error {
	if state == nil || !state.Complete() {
		return errors.New("state is incomplete")
	}
	var errs []error
	mismatch := func(key string, got, want any) {
		errs = append(errs, fmt.Errorf("%s = %v, want %v", key, got, want))
	}

	keys := make([]string, 0, len(want))
	for key := range want {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	gt := state.Meta.GameTime
	res := state.Resources
	for _, key := range keys {
		value := want[key]
		switch key {
		case "turn":
			checkInt(key, state.Meta.Turn, value, mismatch)
		case "year":
			checkInt(key, gt.Year, value, mismatch)
		case "quarter":
			checkInt(key, gt.Quarter, value, mismatch)
		case "month":
			checkInt(key, gt.Month, value, mismatch)
		case "day":
			checkInt(key, gt.Day, value, mismatch)
		case "phase":
			if got := string(state.Meta.Phase); got != str(value) {
				mismatch(key, got, value)
			}
		case "completed":
			checkSet(key, state.Research.Completed, value, mismatch)
		case "active":
			checkSet(key, state.Research.Active, value, mismatch)
		case "unlocked":
			checkSet(key, state.Research.Unlocked, value, mismatch)
		case "pending_events":
			ids := make([]string, 0, len(state.Events.Current))
			for _, evt := range state.Events.Current {
				ids = append(ids, evt.ID)
			}
			checkSet(key, ids, value, mismatch)
		case "deployments":
			checkInt(key, len(state.Deployments.Active), value, mismatch)
		case "funding":
			checkFloat(key, res.Funding.Current, value, mismatch)
		case "computing":
			checkFloat(key, res.Computing.Total, value, mismatch)
		case "allocated":
			checkFloat(key, res.Computing.AllocatedTotal(), value, mismatch)
		case "min_funding":
			if bound, _ := number(value); res.Funding.Current < bound {
				mismatch(key, res.Funding.Current, fmt.Sprintf(">= %v", bound))
			}
		case "max_funding":
			if bound, _ := number(value); res.Funding.Current > bound {
				mismatch(key, res.Funding.Current, fmt.Sprintf("<= %v", bound))
			}
		case "compression":
			checkFloat(key, gt.CompressionFactor, value, mismatch)
		case "efficiency":
			checkFloat(key, res.Computing.Efficiency, value, mismatch)
		case "globals":
			table, _ := value.(map[string]any)
			for name, v := range table {
				checkFloat("globals."+name, state.World.Globals[name], v, mismatch)
			}
		default:
			errs = append(errs, fmt.Errorf("unknown expectation %q", key))
		}
	}
	return errors.Join(errs...)
}

func checkInt(key string, got int, want any, mismatch func(string, any, any)) {
	n, ok := number(want)
	if !ok || float64(got) != n {
		mismatch(key, got, want)
	}
}

func checkFloat(key string, got float64, want any, mismatch func(string, any, any)) {
	n, ok := number(want)
	if !ok || math.Abs(got-n) > tolerance {
		mismatch(key, got, want)
	}
}

// checkSet compares ids as sets. An empty Lua table decodes as a map and
// counts as an empty list.
func checkSet(key string, got []string, want any, mismatch func(string, any, any)) {
	var ids []string
	switch v := want.(type) {
	case []any:
		for _, item := range v {
			ids = append(ids, str(item))
		}
	case map[string]any:
		if len(v) != 0 {
			mismatch(key, got, want)
			return
		}
	case string:
		ids = []string{v}
	default:
		mismatch(key, got, want)
		return
	}
	sortedGot := slices.Sorted(slices.Values(got))
	slices.Sort(ids)
	if !slices.Equal(sortedGot, ids) {
		mismatch(key, sortedGot, ids)
	}
}
