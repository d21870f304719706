// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"strings"

	platformcmd "github.com/louisbranch/voidsheet/internal/platform/cmd"
	"github.com/louisbranch/voidsheet/internal/platform/logging"
	"github.com/louisbranch/voidsheet/internal/services/mcp/domain"
	mcpservice "github.com/louisbranch/voidsheet/internal/services/mcp/service"
	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr     string   `env:"MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	Transport    string   `env:"MCP_TRANSPORT"     envDefault:"stdio"`
	AllowedHosts []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
	DBPath       string   `env:"DB_PATH"`
	LogLevel     string   `env:"LOG_LEVEL"         envDefault:"info"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite path for stored projections (empty disables storage)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return platformcmd.RunWithTelemetryAndOptions(ctx, platformcmd.ServiceMCP, platformcmd.RunOptions{Logger: logger}, func(ctx context.Context) error {
		opts := []app.Option{app.WithLogger(logger)}
		var reader domain.ProjectionReader
		if strings.TrimSpace(cfg.DBPath) != "" {
			store, err := sqlite.Open(ctx, cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open projection store: %w", err)
			}
			defer store.Close()
			opts = append(opts, app.WithStore(store))
			reader = store
		}

		server, err := mcpservice.New(app.New(opts...), reader, mcpservice.WithLogger(logger))
		if err != nil {
			return err
		}
		return server.Run(ctx, mcpservice.Config{
			Transport:    mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
		})
	})
}
