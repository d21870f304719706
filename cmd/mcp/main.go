// Package main starts the sheet MCP server on stdio or HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/voidsheet/internal/cmd/mcp"
	"github.com/louisbranch/voidsheet/internal/platform/config"
)

func main() {
	cfg, err := mcpcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpcmd.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("failed to serve MCP: %v", err)
	}
}
