package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named list of steps loaded from Lua.
type Scenario struct {
	Name string
	// Dir resolves relative document paths.
	Dir   string
	Steps []Step
}

// Step is one scenario instruction.
type Step struct {
	Kind string
	Args map[string]any
}

// Step kinds.
const (
	StepLoad             = "load"
	StepSetHit           = "set_hit"
	StepDerive           = "derive"
	StepExpect           = "expect"
	StepExpectDiagnostic = "expect_diagnostic"
	StepExpectError      = "expect_error"
)

// LoadScenarioFromFile runs a Lua script that must return a Scenario.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
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
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	scenario.Dir = filepath.Dir(path)
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "load", Function: scenarioLoad},
	{Name: "set_hit", Function: scenarioSetHit},
	{Name: "derive", Function: scenarioDerive},
	{Name: "expect", Function: scenarioExpect},
	{Name: "expect_diagnostic", Function: scenarioExpectDiagnostic},
	{Name: "expect_error", Function: scenarioExpectError},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

// scene:load(path)
func scenarioLoad(state *lua.State) int {
	scenario := checkScenario(state)
	path := lua.CheckString(state, 2)
	appendStep(scenario, StepLoad, map[string]any{"path": path})
	return chain(state)
}

// scene:set_hit(bool)
func scenarioSetHit(state *lua.State) int {
	scenario := checkScenario(state)
	hit := true
	if !state.IsNoneOrNil(2) {
		hit = state.ToBoolean(2)
	}
	appendStep(scenario, StepSetHit, map[string]any{"hit": hit})
	return chain(state)
}

func scenarioDerive(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, StepDerive, nil)
	return chain(state)
}

// scene:expect(key, value, {tolerance = 0.01})
func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	key := lua.CheckString(state, 2)
	args := map[string]any{"key": key}
	switch state.TypeOf(3) {
	case lua.TypeNumber:
		value, _ := state.ToNumber(3)
		args["value"] = value
	case lua.TypeBoolean:
		args["value"] = state.ToBoolean(3)
	case lua.TypeString:
		value, _ := state.ToString(3)
		args["value"] = value
	default:
		lua.ArgumentError(state, 3, "number, boolean or string expected")
		return 0
	}
	opts := optionalTable(state, 4)
	if tolerance, ok := opts["tolerance"].(float64); ok {
		args["tolerance"] = tolerance
	}
	appendStep(scenario, StepExpect, args)
	return chain(state)
}

// scene:expect_diagnostic(code, {key = "..."})
func scenarioExpectDiagnostic(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	args := optionalTable(state, 3)
	args["code"] = code
	appendStep(scenario, StepExpectDiagnostic, args)
	return chain(state)
}

// scene:expect_error(code)
func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	appendStep(scenario, StepExpectError, map[string]any{"code": code})
	return chain(state)
}

func chain(state *lua.State) int {
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
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
		return value
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToMap(state, index)
	default:
		return nil
	}
}

func numberArg(args map[string]any, key string) (float64, bool) {
	value, ok := args[key].(float64)
	if !ok || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}
