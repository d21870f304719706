package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/louisbranch/voidsheet/internal/platform/config"
	"github.com/louisbranch/voidsheet/internal/platform/otel"
	"github.com/louisbranch/voidsheet/internal/platform/timeouts"
)

// Service names used for the tracer resource and the command root span.
const (
	ServiceSheet    = "sheet"
	ServiceMCP      = "mcp"
	ServiceScenario = "scenario"
)

// RunOptions tunes RunWithTelemetryAndOptions.
type RunOptions struct {
	ShutdownTimeout time.Duration // span flush budget; timeouts.Shutdown when zero
	Logger          *zap.Logger   // command lifecycle and flush failures
}

// ParseConfig loads VOIDSHEET_-prefixed environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnvPrefixed(cfg)
}

// ParseArgs parses command-line flags. Flags override env defaults.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry runs a command with default options.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions sets up tracing, runs the command inside a root
// span named "<service>.run" and flushes spans on return. Derive spans opened
// by run become children of that span.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("service", service))

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		budget := options.ShutdownTimeout
		if budget <= 0 {
			budget = timeouts.Shutdown
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), budget)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("otel shutdown failed", zap.Error(err))
		}
	}()

	ctx, span := otel.Tracer("voidsheet/cmd").Start(ctx, service+".run")
	defer span.End()
	logger.Debug("command started")
	if err := run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "command failed")
		logger.Debug("command failed", zap.Error(err))
		return err
	}
	logger.Debug("command finished")
	return nil
}
