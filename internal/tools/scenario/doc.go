// Package scenario runs Lua-authored sheet scenarios.
//
// A scenario script builds a step list with the Scenario DSL and returns it;
// the runner replays the steps against the sheet service and checks every
// expectation. Scenarios pin derived values across rules changes.
package scenario
