package scenario

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// AssertionMode decides whether failed expectations stop a run.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first failed expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs failed expectations and keeps going.
	AssertionLogOnly
)

// ParseAssertionMode accepts "strict" and "log".
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch value {
	case "", "strict":
		return AssertionStrict, nil
	case "log", "log-only":
		return AssertionLogOnly, nil
	default:
		return AssertionStrict, fmt.Errorf("assertion mode %q is not supported", value)
	}
}

// Assertions applies the configured mode.
type Assertions struct {
	Mode     AssertionMode
	Logger   *zap.Logger
	failures atomic.Int64
}

// Failf reports a setup failure. Setup failures stop the run in every mode.
func (a *Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf reports a failed expectation.
func (a *Assertions) Assertf(format string, args ...any) error {
	a.failures.Add(1)
	err := fmt.Errorf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Warn("scenario expectation failed", zap.Error(err))
		}
		return nil
	}
	return err
}

// Failures counts failed expectations so far.
func (a *Assertions) Failures() int {
	return int(a.failures.Load())
}
