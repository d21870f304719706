package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
	"github.com/louisbranch/voidsheet/internal/services/sheet/fixture"
)

// defaultTolerance absorbs float noise in weights and multipliers.
const defaultTolerance = 1e-9

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case StepLoad:
		return r.runLoad(state, step)
	case StepSetHit:
		return r.runSetHit(state, step)
	case StepDerive:
		return r.runDerive(ctx, state)
	case StepExpect:
		return r.runExpect(state, step)
	case StepExpectDiagnostic:
		return r.runExpectDiagnostic(state, step)
	case StepExpectError:
		return r.runExpectError(state, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func (r *Runner) runLoad(state *scenarioState, step Step) error {
	path, _ := step.Args["path"].(string)
	if strings.TrimSpace(path) == "" {
		return r.failf("load requires a path")
	}
	if !filepath.IsAbs(path) && state.dir != "" {
		path = filepath.Join(state.dir, path)
	}
	state.result = nil
	sheet, err := fixture.LoadFile(path)
	if err != nil {
		state.sheet = nil
		state.lastErr = err
		return nil
	}
	state.sheet = &sheet
	state.lastErr = nil
	return nil
}

func (r *Runner) runSetHit(state *scenarioState, step Step) error {
	if state.sheet == nil {
		return r.failf("set_hit requires a loaded sheet")
	}
	hit, _ := step.Args["hit"].(bool)
	state.sheet.Combat.AlreadyHit = hit
	state.result = nil
	return nil
}

func (r *Runner) runDerive(ctx context.Context, state *scenarioState) error {
	if state.sheet == nil {
		if state.lastErr != nil {
			return nil
		}
		return r.failf("derive requires a loaded sheet")
	}
	result, err := r.service.Derive(ctx, *state.sheet)
	if err != nil {
		state.result = nil
		state.lastErr = err
		return nil
	}
	state.result = &result
	state.lastErr = nil
	return nil
}

func (r *Runner) runExpect(state *scenarioState, step Step) error {
	if state.result == nil {
		if state.lastErr != nil {
			return r.assertf("expect %v: derive failed: %v", step.Args["key"], state.lastErr)
		}
		return r.failf("expect requires a derive step first")
	}
	key, _ := step.Args["key"].(string)
	got, ok := lookupValue(state, key)
	if !ok {
		return r.assertf("expect %s: value not found", key)
	}

	switch want := step.Args["value"].(type) {
	case float64:
		number, ok := toNumber(got)
		if !ok {
			return r.assertf("expect %s: got non-numeric %v", key, got)
		}
		tolerance, ok := numberArg(step.Args, "tolerance")
		if !ok {
			tolerance = defaultTolerance
		}
		if math.Abs(number-want) > tolerance {
			return r.assertf("expect %s = %v, got %v", key, want, number)
		}
	case bool:
		if got != want {
			return r.assertf("expect %s = %v, got %v", key, want, got)
		}
	case string:
		if fmt.Sprint(got) != want {
			return r.assertf("expect %s = %q, got %v", key, want, got)
		}
	default:
		return r.failf("expect %s: unsupported expected value %v", key, want)
	}
	return nil
}

func (r *Runner) runExpectDiagnostic(state *scenarioState, step Step) error {
	if state.result == nil {
		return r.failf("expect_diagnostic requires a derive step first")
	}
	code, _ := step.Args["code"].(string)
	key, _ := step.Args["key"].(string)
	for _, diagnostic := range state.result.Derived.Diagnostics {
		if diagnostic.Code != code {
			continue
		}
		if key == "" || diagnostic.Key == key {
			return nil
		}
	}
	if key != "" {
		return r.assertf("expected diagnostic %s for key %q", code, key)
	}
	return r.assertf("expected diagnostic %s", code)
}

func (r *Runner) runExpectError(state *scenarioState, step Step) error {
	code, _ := step.Args["code"].(string)
	if state.lastErr == nil {
		return r.assertf("expected error %s, got none", code)
	}
	if got := apperrors.CodeOf(state.lastErr); string(got) != code {
		return r.assertf("expected error %s, got %s", code, got)
	}
	return nil
}

// lookupValue resolves a key against the last derive. Keys are tried as
// armour.<location>, skill.<key>, a roll binding, then a dotted path into the
// derived JSON snapshot.
func lookupValue(state *scenarioState, key string) (any, bool) {
	result := state.result
	if rest, ok := strings.CutPrefix(key, "armour."); ok && result.Derived.Armour != nil {
		loc, ok := record.ParseLocation(rest)
		if !ok {
			return nil, false
		}
		return float64(result.Derived.Armour.At(loc).Total), true
	}
	if rest, ok := strings.CutPrefix(key, "skill."); ok {
		skill, ok := result.Derived.Skills[rest]
		if !ok {
			return nil, false
		}
		return float64(skill.Current), true
	}
	if value, ok := result.Bindings[key]; ok {
		return value, true
	}

	var snapshot any
	if err := json.Unmarshal(result.JSON, &snapshot); err != nil {
		return nil, false
	}
	current := snapshot
	for _, part := range strings.Split(key, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
