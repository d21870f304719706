package scenario

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions enabled by default")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout 10s, got %v", cfg.Timeout)
	}
}

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-scenario", "a.lua", "-assert=false", "-verbose", "-timeout", "2s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "a.lua" || cfg.Assertions || !cfg.Verbose || cfg.Timeout != 2*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestRunRequiresScenario(t *testing.T) {
	if err := Run(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing scenario")
	}
}

func TestRunExecutesScenario(t *testing.T) {
	err := Run(context.Background(), Config{
		Scenario:   "../../tools/scenario/testdata/acolyte.lua",
		Assertions: true,
		Timeout:    5 * time.Second,
		LogLevel:   "error",
	})
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}
