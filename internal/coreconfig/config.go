// Package coreconfig loads the driver's tunables: library preset,
// worker-pool size, per-definition timeout, Zhegalkin cache toggles,
// diagnostic verbosity, and output format. A YAML file supplies the base
// configuration (spec.md §6's external-interface contract); command-line
// flags layered on top override any field actually passed, following the
// same "flag wins over file" precedence cmd/ailang/main.go's flag.Bool
// options use against their zero-value defaults.
//
// Grounded on internal/eval_harness/spec.go's LoadSpec (gopkg.in/yaml.v3
// Unmarshal, required-field validation after decode) for the YAML layer,
// and cmd/ailang/main.go's flag.Bool/flag.Int/flag.Parse idiom for the
// override layer.
package coreconfig

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Lib selects which associated-type/class-instance preset loads before
// inference: the bare core library, a minimal set, or everything the
// instance environment knows. corewire.BuildEnv loads the same builtin
// environment for min and all.
type Lib string

const (
	LibNix Lib = "nix"
	LibMin Lib = "min"
	LibAll Lib = "all"
)

// Verbosity controls how much coreerrors output the driver emits.
type Verbosity string

const (
	VerbositySilent  Verbosity = "silent"
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
)

// Config is the full set of driver tunables, spec.md §6.
type Config struct {
	Lib     Lib    `yaml:"lib"`
	Threads int    `yaml:"threads"`
	Timeout string `yaml:"timeout"` // parsed into a time.Duration by Resolve

	CacheUnion    bool `yaml:"cache_union"`
	CacheInter    bool `yaml:"cache_inter"`
	CacheXor      bool `yaml:"cache_xor"`
	CacheSVE      bool `yaml:"cache_sve"`
	CacheInterCst bool `yaml:"cache_inter_cst"`

	Verbosity Verbosity `yaml:"verbosity"`
	JSON      bool      `yaml:"json"`
	Stats     bool      `yaml:"x_statistics"`
}

// Default returns the configuration the driver runs with when no file or
// flags are supplied: every cache enabled, one worker per CPU, no
// timeout, normal verbosity.
func Default() Config {
	return Config{
		Lib:           LibMin,
		Threads:       runtime.NumCPU(),
		CacheUnion:    true,
		CacheInter:    true,
		CacheXor:      true,
		CacheSVE:      true,
		CacheInterCst: true,
		Verbosity:     VerbosityNormal,
	}
}

// Load reads a YAML configuration file over Default(), returning an error
// if the file exists but fails to parse.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("coreconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("coreconfig: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve parses Timeout into a *time.Duration, nil when unset (no
// per-definition budget).
func (c Config) Resolve() (*time.Duration, error) {
	if c.Timeout == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("coreconfig: invalid timeout %q: %w", c.Timeout, err)
	}
	return &d, nil
}

// FlagSet registers every Config field onto fs, defaulting each flag to
// cfg's current value so an unset flag leaves the loaded configuration
// untouched. Call fs.Parse, then read back the returned *Config.
func FlagSet(fs *flag.FlagSet, cfg Config) *Config {
	out := cfg
	fs.StringVar((*string)(&out.Lib), "lib", string(cfg.Lib), "library preset: nix, min, or all")
	fs.IntVar(&out.Threads, "threads", cfg.Threads, "worker pool size")
	fs.StringVar(&out.Timeout, "timeout", cfg.Timeout, "per-definition timeout, e.g. 500ms")
	fs.BoolVar(&out.CacheUnion, "cache-union", cfg.CacheUnion, "enable Zhegalkin union memoization")
	fs.BoolVar(&out.CacheInter, "cache-inter", cfg.CacheInter, "enable Zhegalkin intersection memoization")
	fs.BoolVar(&out.CacheXor, "cache-xor", cfg.CacheXor, "enable Zhegalkin xor memoization")
	fs.BoolVar(&out.CacheSVE, "cache-sve", cfg.CacheSVE, "enable successive-variable-elimination memoization")
	fs.BoolVar(&out.CacheInterCst, "cache-inter-cst", cfg.CacheInterCst, "enable constant-intersection memoization")
	fs.StringVar((*string)(&out.Verbosity), "verbosity", string(cfg.Verbosity), "silent, normal, or verbose")
	fs.BoolVar(&out.JSON, "json", cfg.JSON, "emit diagnostics as JSON")
	fs.BoolVar(&out.Stats, "x-statistics", cfg.Stats, "emit a corestats.Report after running")
	return &out
}
