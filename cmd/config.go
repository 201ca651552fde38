package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tracesim/tracesim/sim"
)

// ConfigFile is the YAML config layout. Sections left out keep their
// defaults, as do fields left out of a section.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ConfigFile struct {
	Trace    *sim.Config         `yaml:"trace"`
	Mobility *sim.MobilityConfig `yaml:"mobility"`
}

func defaultConfigFile() *ConfigFile {
	trace := sim.DefaultConfig()
	mobility := sim.DefaultMobilityConfig()
	return &ConfigFile{Trace: &trace, Mobility: &mobility}
}

// loadConfigFile parses path over the defaults. An empty path returns the
// defaults. Uses strict field checking: typos must cause errors.
func loadConfigFile(path string) (*ConfigFile, error) {
	cfg := defaultConfigFile()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty or comment-only file decodes to io.EOF and keeps the defaults.
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	// A section written as `trace:` with no body decodes to nil.
	if cfg.Trace == nil || cfg.Mobility == nil {
		defaults := defaultConfigFile()
		if cfg.Trace == nil {
			cfg.Trace = defaults.Trace
		}
		if cfg.Mobility == nil {
			cfg.Mobility = defaults.Mobility
		}
	}
	return cfg, nil
}

// applySharedFlags overrides config values with the shared flags the user
// set explicitly. Flags left at their defaults never clobber file values.
func applySharedFlags(cmd *cobra.Command, towers, users, cycles *int, random, verb *bool, s *int64) {
	flags := cmd.Flags()
	if flags.Changed("towers") {
		*towers = numTowers
	}
	if flags.Changed("users") {
		*users = numUsers
	}
	if flags.Changed("cycles") {
		*cycles = numCycles
	}
	if flags.Changed("random-towers") {
		*random = randomTowers
	}
	if flags.Changed("verbose") {
		*verb = verbose
	}
	if flags.Changed("seed") {
		*s = seed
	}
}

func applyTraceFlags(cmd *cobra.Command, cfg sim.Config) sim.Config {
	applySharedFlags(cmd, &cfg.NumberTowers, &cfg.NumberUsers, &cfg.NumberCycles, &cfg.RandomTowers, &cfg.Verbose, &cfg.Seed)
	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("expander") {
		cfg.Expander = expander
	}
	if flags.Changed("sigma") {
		cfg.Sigma = sigma
	}
	if flags.Changed("distance-power") {
		cfg.DistancePower = distancePower
	}
	if flags.Changed("friction") {
		cfg.FrictionCoefficient = friction
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg
}

func applyMobilityFlags(cmd *cobra.Command, cfg sim.MobilityConfig) sim.MobilityConfig {
	applySharedFlags(cmd, &cfg.NumberTowers, &cfg.NumberUsers, &cfg.NumberCycles, &cfg.RandomTowers, &cfg.Verbose, &cfg.Seed)
	flags := cmd.Flags()
	if flags.Changed("velocity-min") {
		cfg.VelocityMin = velocityMin
	}
	if flags.Changed("velocity-max") {
		cfg.VelocityMax = velocityMax
	}
	if flags.Changed("wait-time-max") {
		cfg.WaitTimeMax = waitTimeMax
	}
	if flags.Changed("model") {
		cfg.Model = mobilityModel
	}
	if flags.Changed("repeat") {
		cfg.Repeat = repeat
	}
	return cfg
}
