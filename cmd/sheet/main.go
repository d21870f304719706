// Package main provides the voidsheet command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sheetcmd "github.com/louisbranch/voidsheet/internal/cmd/sheet"
	platformcmd "github.com/louisbranch/voidsheet/internal/platform/cmd"
	"github.com/louisbranch/voidsheet/internal/platform/config"
)

func main() {
	cfg, err := sheetcmd.ParseConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSheet, func(ctx context.Context) error {
		return sheetcmd.Run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	})
	if err != nil {
		stop()
		config.ExitErr(err)
	}
}
