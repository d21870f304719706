// Package scenario parses scenario command flags and runs Lua scenarios.
package scenario

import (
	"context"
	"errors"
	"flag"
	"time"

	platformcmd "github.com/louisbranch/voidsheet/internal/platform/cmd"
	"github.com/louisbranch/voidsheet/internal/platform/logging"
	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string        `env:"SCENARIO_FILE"`
	Assertions bool          `env:"SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"SCENARIO_TIMEOUT" envDefault:"10s"`
	LogLevel   string        `env:"LOG_LEVEL"        envDefault:"info"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	return platformcmd.RunWithTelemetryAndOptions(ctx, platformcmd.ServiceScenario, platformcmd.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return scenario.RunFile(ctx, scenario.Config{
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     logger,
		}, app.New(app.WithLogger(logger)), cfg.Scenario)
	})
}
