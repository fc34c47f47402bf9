package backend

import (
	"flag"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/exp/rand"
)

// Environment variable names for configuration overrides
const (
	EnvDatasets   = "DRILLCHART_DATASETS"
	EnvDateLayout = "DRILLCHART_DATE_LAYOUT"
	EnvTimeLayout = "DRILLCHART_TIME_LAYOUT"
	EnvSeed       = "DRILLCHART_SEED"
	EnvLogLevel   = "DRILLCHART_LOG_LEVEL"
)

const DefaultLogLevel = "info"

// Config holds the settings shared by every front end.
type Config struct {
	// DatasetsPath is a YAML file of dataset definitions. Empty means the
	// built-in definitions.
	DatasetsPath string
	DateLayout   string
	TimeLayout   string
	// Seed for the value generator. Zero seeds from the clock.
	Seed     uint64
	LogLevel string
}

func DefaultConfig() Config {
	return Config{
		DateLayout: DefaultDateLayout,
		TimeLayout: DefaultTimeLayout,
		LogLevel:   DefaultLogLevel,
	}
}

// FromEnv returns the default configuration with environment overrides
// applied. Unparseable values are ignored.
func FromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(EnvDatasets); v != "" {
		cfg.DatasetsPath = v
	}
	if v := os.Getenv(EnvDateLayout); v != "" {
		cfg.DateLayout = v
	}
	if v := os.Getenv(EnvTimeLayout); v != "" {
		cfg.TimeLayout = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// RegisterFlags binds the configuration to fs, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DatasetsPath, "datasets", c.DatasetsPath, "YAML file of dataset definitions")
	fs.StringVar(&c.DateLayout, "date-layout", c.DateLayout, "Go time layout for month labels")
	fs.StringVar(&c.TimeLayout, "time-layout", c.TimeLayout, "Go time layout for day and hour labels")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "seed for generated values (0 = random)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// RegisterPFlags is RegisterFlags for pflag (cobra) flag sets.
func (c *Config) RegisterPFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.DatasetsPath, "datasets", c.DatasetsPath, "YAML file of dataset definitions")
	fs.StringVar(&c.DateLayout, "date-layout", c.DateLayout, "Go time layout for month labels")
	fs.StringVar(&c.TimeLayout, "time-layout", c.TimeLayout, "Go time layout for day and hour labels")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "seed for generated values (0 = random)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

func (c Config) Locale() Locale {
	return Locale{
		DateLayout: c.DateLayout,
		TimeLayout: c.TimeLayout,
	}
}

// Generator returns a value generator for this configuration.
func (c Config) Generator() *Generator {
	var src rand.Source
	if c.Seed != 0 {
		src = rand.NewSource(c.Seed)
	}
	return NewGenerator(c.Locale(), src)
}
