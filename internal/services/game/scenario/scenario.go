package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

// Step kinds recorded by the script bindings.
const (
	StepStartResearch    = "start_research"
	StepCancelResearch   = "cancel_research"
	StepCompleteResearch = "complete_research"
	StepDeploy           = "deploy"
	StepRemoveDeployment = "remove_deployment"
	StepEndTurn          = "end_turn"
	StepResolveEvent     = "resolve_event"
	StepAllocate         = "allocate"
	StepDeallocate       = "deallocate"
	StepDispatch         = "dispatch"
	StepSave             = "save"
	StepLoad             = "load"
	StepExpect           = "expect"
)

// Scenario is a named list of steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted operation. Fails, when set, is the error code the
// step must fail with.
type Step struct {
	Kind  string
	Args  map[string]any
	Fails string
}

// LoadFile runs the script at path and returns the Scenario it builds. An
// unnamed scenario takes the file's base name.
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadString runs source and returns the Scenario it builds.
func LoadString(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)
	return state
}

func run(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}
