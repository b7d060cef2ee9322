package scenario

import (
	"math"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName = "scenario"
	stepTypeName     = "scenario_step"
)

// stepRef is the handle returned by step methods so scripts can chain
// :fails(code).
type stepRef struct {
	scenario  *Scenario
	stepIndex int
}

func registerLuaTypes(state *lua.State) {
	registerType(state, scenarioTypeName, scenarioMethods)
	registerType(state, stepTypeName, stepMethods)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

func registerType(state *lua.State, name string, methods []lua.RegistryFunction) {
	lua.NewMetaTable(state, name)
	state.NewTable()
	lua.SetFunctions(state, methods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "start_research", Function: scenarioStartResearch},
	{Name: "cancel_research", Function: idStep(StepCancelResearch)},
	{Name: "complete_research", Function: idStep(StepCompleteResearch)},
	{Name: "deploy", Function: scenarioDeploy},
	{Name: "remove_deployment", Function: idStep(StepRemoveDeployment)},
	{Name: "end_turn", Function: scenarioEndTurn},
	{Name: "resolve_event", Function: scenarioResolveEvent},
	{Name: "allocate", Function: computingStep(StepAllocate)},
	{Name: "deallocate", Function: computingStep(StepDeallocate)},
	{Name: "dispatch", Function: scenarioDispatch},
	{Name: "save", Function: slotStep(StepSave)},
	{Name: "load", Function: slotStep(StepLoad)},
	{Name: "expect", Function: scenarioExpect},
}

func scenarioStartResearch(state *lua.State) int {
	scenario := checkScenario(state)
	id := lua.CheckString(state, 2)
	compute := lua.OptNumber(state, 3, 0)
	return pushStep(state, scenario, StepStartResearch, map[string]any{"id": id, "compute": compute})
}

func idStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		id := lua.CheckString(state, 2)
		return pushStep(state, scenario, kind, map[string]any{"id": id})
	}
}

// scenarioDeploy takes an optional table: name overrides the deployment
// name and as binds the new id to an alias for later steps.
func scenarioDeploy(state *lua.State) int {
	scenario := checkScenario(state)
	research := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["research"] = research
	return pushStep(state, scenario, StepDeploy, data)
}

func scenarioEndTurn(state *lua.State) int {
	scenario := checkScenario(state)
	count := lua.OptInteger(state, 2, 1)
	if count < 1 {
		lua.ArgumentError(state, 2, "turn count must be positive")
		return 0
	}
	return pushStep(state, scenario, StepEndTurn, map[string]any{"count": count})
}

func scenarioResolveEvent(state *lua.State) int {
	scenario := checkScenario(state)
	id := lua.CheckString(state, 2)
	choice := lua.CheckString(state, 3)
	return pushStep(state, scenario, StepResolveEvent, map[string]any{"id": id, "choice": choice})
}

func computingStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		target := lua.CheckString(state, 2)
		amount := lua.CheckNumber(state, 3)
		return pushStep(state, scenario, kind, map[string]any{"target": target, "amount": amount})
	}
}

func scenarioDispatch(state *lua.State) int {
	scenario := checkScenario(state)
	actionType := lua.CheckString(state, 2)
	payload := optionalTable(state, 3)
	return pushStep(state, scenario, StepDispatch, map[string]any{"type": actionType, "payload": payload})
}

func slotStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		name := lua.CheckString(state, 2)
		return pushStep(state, scenario, kind, map[string]any{"name": name})
	}
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, StepExpect, tableToMap(state, 2))
	return 0
}

var stepMethods = []lua.RegistryFunction{
	{Name: "fails", Function: stepFails},
}

func stepFails(state *lua.State) int {
	ud := lua.CheckUserData(state, 1, stepTypeName)
	ref, ok := ud.(*stepRef)
	if !ok || ref == nil {
		lua.Errorf(state, "invalid scenario step")
		return 0
	}
	code := lua.CheckString(state, 2)
	if ref.stepIndex < 0 || ref.stepIndex >= len(ref.scenario.Steps) {
		lua.Errorf(state, "scenario step is out of range")
		return 0
	}
	ref.scenario.Steps[ref.stepIndex].Fails = code
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func pushStep(state *lua.State, scenario *Scenario, kind string, data map[string]any) int {
	index := appendStep(scenario, kind, data)
	state.PushUserData(&stepRef{scenario: scenario, stepIndex: index})
	lua.SetMetaTableNamed(state, stepTypeName)
	return 1
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a []any for sequences and a map otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}
	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
