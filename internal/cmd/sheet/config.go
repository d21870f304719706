// Package sheet implements the voidsheet command line: derive, bindings,
// explain, watch and stored projection commands.
package sheet

import (
	"fmt"
	"time"

	platformcmd "github.com/louisbranch/voidsheet/internal/platform/cmd"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds sheet command configuration. Environment variables carry the
// VOIDSHEET_ prefix; flags override them.
type Config struct {
	DBPath   string        `env:"DB_PATH"`
	LogLevel string        `env:"LOG_LEVEL"      envDefault:"warn"`
	Output   string        `env:"OUTPUT"         envDefault:"text"`
	Lang     string        `env:"LANG_TAG"       envDefault:"en"`
	Debounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"200ms"`
}

// ParseConfig loads environment defaults.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("output %q is not supported", c.Output)
	}
}
