package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/zenithax-cc/hwlens/pkg/collector"
	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const envPrefix = "HWLENS_"

type Config struct {
	Modules     []string      `env:"MODULES"      envDefault:"all" envSeparator:","`
	Output      string        `env:"OUTPUT"       envDefault:"brief"`
	Interval    time.Duration `env:"INTERVAL"     envDefault:"1s"`
	HistorySize int           `env:"HISTORY_SIZE" envDefault:"60"`
	Listen      string        `env:"LISTEN"`
	ExportPath  string        `env:"EXPORT_PATH"`
	PrefsPath   string        `env:"PREFS_PATH"   envDefault:"hwlens.json"`
	Debug       bool          `env:"DEBUG"`
	NoColor     bool          `env:"NO_COLOR"`
}

var (
	ErrInvalidOutput   = errors.New("invalid output")
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrInvalidHistory  = errors.New("history size must be positive")
)

func Parse() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// ParseEnviron reads the configuration from environ instead of the process
// environment.
func ParseEnviron(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	errs := make([]error, 0, 4)

	if _, err := collector.ResolveModules(c.Modules); err != nil {
		errs = append(errs, err)
	}

	switch c.Output {
	case utils.OutputBrief, utils.OutputDetail, utils.OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output))
	}

	if c.Interval <= 0 {
		errs = append(errs, ErrInvalidInterval)
	}

	if c.HistorySize <= 0 {
		errs = append(errs, ErrInvalidHistory)
	}

	return errors.Join(errs...)
}
