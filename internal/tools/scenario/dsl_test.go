package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScenarioFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func TestChainingCreatesSteps(t *testing.T) {
	path := writeScenarioFixture(t, `-- Setup
local scene = Scenario.new("chain")
scene:load("sheet.yaml"):set_hit():derive()
scene:expect("armour.body", 8, {tolerance = 0.5})
scene:expect_diagnostic("UNKNOWN_SKILL", {key = "dodgee"})
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "chain" {
		t.Fatalf("name = %q, want %q", scenario.Name, "chain")
	}
	if scenario.Dir != filepath.Dir(path) {
		t.Fatalf("dir = %q, want %q", scenario.Dir, filepath.Dir(path))
	}
	kinds := make([]string, 0, len(scenario.Steps))
	for _, step := range scenario.Steps {
		kinds = append(kinds, step.Kind)
	}
	want := "load,set_hit,derive,expect,expect_diagnostic"
	if got := strings.Join(kinds, ","); got != want {
		t.Fatalf("steps = %s, want %s", got, want)
	}
	if scenario.Steps[1].Args["hit"] != true {
		t.Fatalf("set_hit without argument = %v, want true", scenario.Steps[1].Args["hit"])
	}
	expect := scenario.Steps[3]
	if expect.Args["value"] != 8.0 || expect.Args["tolerance"] != 0.5 {
		t.Fatalf("expect args = %v", expect.Args)
	}
	if scenario.Steps[4].Args["key"] != "dodgee" {
		t.Fatalf("diagnostic key = %v, want dodgee", scenario.Steps[4].Args["key"])
	}
}

func TestScenarioNameDefaultsToFile(t *testing.T) {
	path := writeScenarioFixture(t, `return Scenario.new()`)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "scenario" {
		t.Fatalf("name = %q, want %q", scenario.Name, "scenario")
	}
}

func TestScenarioMustReturnScenario(t *testing.T) {
	path := writeScenarioFixture(t, `return 42`)
	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected error for non-scenario return")
	}
}

func TestScenarioLuaErrorsSurface(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new()
scene:expect("T", {})
return scene
`)
	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected error for invalid expect value")
	}
}
