package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/platform/logging"
	"github.com/louisbranch/voidsheet/internal/platform/timeouts"
	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/fixture"
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *zap.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner executes Lua scenarios against the sheet service.
type Runner struct {
	service    *app.Service
	assertions Assertions
	logger     *zap.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner prepares a scenario runner. A nil service gets a default one.
func NewRunner(cfg Config, service *app.Service) *Runner {
	logger := logging.OrNop(cfg.Logger)
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}
	if service == nil {
		service = app.New(app.WithLogger(logger))
	}
	return &Runner{
		service:    service,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, service *app.Service, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return NewRunner(cfg, service).RunScenario(ctx, scenario)
}

// scenarioState carries the sheet under test between steps.
type scenarioState struct {
	dir     string
	sheet   *fixture.Sheet
	result  *app.Result
	lastErr error
}

// RunScenario executes the scenario steps.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{dir: scenario.Dir}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return apperrors.Wrap(apperrors.CodeScenarioFailed,
				fmt.Sprintf("scenario %s step %d (%s): %v", scenario.Name, stepNumber, step.Kind, err), err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if failures := r.assertions.Failures(); failures > 0 {
		r.logger.Warn("scenario finished with failed expectations",
			zap.String("scenario", scenario.Name),
			zap.Int("failures", failures))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.logger.Info(fmt.Sprintf(format, args...))
}
