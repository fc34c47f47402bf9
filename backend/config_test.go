package backend

import (
	"flag"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DateLayout != DefaultDateLayout {
		t.Errorf("expected DateLayout %q, got %q", DefaultDateLayout, cfg.DateLayout)
	}
	if cfg.TimeLayout != DefaultTimeLayout {
		t.Errorf("expected TimeLayout %q, got %q", DefaultTimeLayout, cfg.TimeLayout)
	}
	if cfg.DatasetsPath != "" || cfg.Seed != 0 {
		t.Errorf("expected no datasets path and no seed, got %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvDatasets, "/tmp/datasets.yaml")
	t.Setenv(EnvDateLayout, "2006-01-02")
	t.Setenv(EnvTimeLayout, "15:04")
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvLogLevel, "debug")

	cfg := FromEnv()
	want := Config{
		DatasetsPath: "/tmp/datasets.yaml",
		DateLayout:   "2006-01-02",
		TimeLayout:   "15:04",
		Seed:         42,
		LogLevel:     "debug",
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestFromEnvInvalidSeed(t *testing.T) {
	t.Setenv(EnvSeed, "lots")
	if cfg := FromEnv(); cfg.Seed != 0 {
		t.Errorf("expected invalid seed to be ignored, got %d", cfg.Seed)
	}
}

func TestRegisterFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-seed", "7", "-time-layout", "15:04"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 7 || cfg.TimeLayout != "15:04" || cfg.DateLayout != DefaultDateLayout {
		t.Errorf("unexpected config after flags: %+v", cfg)
	}

	cfg = DefaultConfig()
	pfs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterPFlags(pfs)
	if err := pfs.Parse([]string{"--datasets", "d.yaml", "--log-level", "warn"}); err != nil {
		t.Fatal(err)
	}
	if cfg.DatasetsPath != "d.yaml" || cfg.LogLevel != "warn" {
		t.Errorf("unexpected config after pflags: %+v", cfg)
	}
}

func TestConfigGeneratorSeeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	a := NewDrilldown(cfg.Generator(), DefaultDefinitions(), nil).Reset()
	b := NewDrilldown(cfg.Generator(), DefaultDefinitions(), nil).Reset()
	for i, v := range a.Series[0].Values {
		if b.Series[0].Values[i] != v {
			t.Fatalf("expected equal seeds to draw equal values, index %d differs", i)
		}
	}
}
