package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/inference-sim/festival-sim/planner"
	"github.com/inference-sim/festival-sim/planner/scenario"
	"github.com/inference-sim/festival-sim/planner/trace"
)

// envPrefix namespaces environment overrides: FESTIVAL_LOG_LEVEL, FESTIVAL_STRATEGY, ...
const envPrefix = "FESTIVAL_"

// Settings holds the run options that can come from a config file, the environment or flags.
type Settings struct {
	LogLevel string `koanf:"log_level"` // trace, debug, info, warn, error, fatal, panic
	Format   string `koanf:"format"`    // input format: auto, stream, yaml
	Output   string `koanf:"output"`    // text, json, yaml
	Strategy string `koanf:"strategy"`  // end-time, fixed-point, index-order
	Trace    string `koanf:"trace"`     // none, relaxations
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: "warn",
		Format:   string(scenario.FormatAuto),
		Output:   planner.FormatText,
		Strategy: string(planner.StrategyEndTime),
		Trace:    string(trace.LevelNone),
	}
}

// LoadSettings layers, low to high precedence:
//  1. DefaultSettings()
//  2. YAML file at path, or at $FESTIVAL_CONFIG when path is empty
//  3. environment variables FESTIVAL_<KEY>
//
// Flags are applied afterwards by applyFlagOverrides.
func LoadSettings(path string) (Settings, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// FESTIVAL_LOG_LEVEL -> log_level (flat keys, underscores kept to match koanf tags)
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Settings{}, fmt.Errorf("loading environment: %w", err)
	}

	s := DefaultSettings()
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	return s, nil
}

// Validate checks every setting against its registry of accepted values.
func (s Settings) Validate() error {
	if !scenario.IsValidFormat(s.Format) {
		return fmt.Errorf("unknown input format %q; valid: auto, stream, yaml", s.Format)
	}
	if !planner.IsValidFormat(s.Output) {
		return fmt.Errorf("unknown output format %q; valid: text, json, yaml", s.Output)
	}
	if !planner.IsValidStrategy(s.Strategy) {
		return fmt.Errorf("unknown strategy %q; valid: end-time, fixed-point, index-order", s.Strategy)
	}
	if !trace.IsValidLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, relaxations", s.Trace)
	}
	return nil
}

// applyFlagOverrides copies explicitly set flags over the layered settings.
// Only flags the user typed win; flag defaults never mask file or env values.
func applyFlagOverrides(cmd *cobra.Command, s *Settings) {
	fields := map[string]*string{
		"log":      &s.LogLevel,
		"format":   &s.Format,
		"output":   &s.Output,
		"strategy": &s.Strategy,
		"trace":    &s.Trace,
	}
	for name, field := range fields {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*field = f.Value.String()
		}
	}
}
