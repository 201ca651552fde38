package sim

import (
	"math"

	"github.com/tracesim/tracesim/sim/geometry"
	"github.com/tracesim/tracesim/sim/kernel"
	"github.com/tracesim/tracesim/sim/mobility"
)

// Config groups the options of the kernel-driven trace simulator.
type Config struct {
	NumberTowers        int     `yaml:"number_towers" json:"number_towers"`
	NumberUsers         int     `yaml:"number_users" json:"number_users"`
	NumberCycles        int     `yaml:"number_cycles" json:"number_cycles"`
	Method              string  `yaml:"method" json:"method"`                             // "distance_distribution" or "distance_square"
	Expander            float64 `yaml:"expander" json:"expander"`                         // distance_distribution only
	Sigma               float64 `yaml:"sigma" json:"sigma"`                               // distance_distribution only, > 0
	DistancePower       float64 `yaml:"distance_power" json:"distance_power"`             // distance_square only
	FrictionCoefficient float64 `yaml:"friction_coefficient" json:"friction_coefficient"` // in [0,1]; 1 = full inertia
	RandomTowers        bool    `yaml:"random_towers" json:"random_towers"`               // false = grid layout
	Verbose             bool    `yaml:"verbose" json:"verbose"`                           // log per-stage timings
	Seed                int64   `yaml:"seed" json:"seed"`
	Workers             int     `yaml:"workers" json:"workers"` // 0 = GOMAXPROCS
}

// DefaultConfig returns the stock trace simulator configuration.
func DefaultConfig() Config {
	return Config{
		NumberTowers:        100,
		NumberUsers:         100,
		NumberCycles:        24,
		Method:              string(kernel.MethodDistanceDistribution),
		Expander:            1,
		Sigma:               0.03,
		DistancePower:       5,
		FrictionCoefficient: 0.9,
		Seed:                42,
		Workers:             1,
	}
}

// Layout returns the tower layout kind selected by RandomTowers.
func (c Config) Layout() geometry.LayoutKind {
	return layoutKind(c.RandomTowers)
}

// KernelParams returns the transition kernel parameters.
func (c Config) KernelParams() kernel.Params {
	return kernel.Params{
		Method:        kernel.Method(c.Method),
		Sigma:         c.Sigma,
		Expander:      c.Expander,
		DistancePower: c.DistancePower,
	}
}

// Validate checks every field before any simulation work starts.
func (c Config) Validate() error {
	if err := validateCounts(c.NumberTowers, c.NumberUsers, c.NumberCycles); err != nil {
		return err
	}
	if !kernel.IsValidMethod(c.Method) {
		return configErr("method", c.Method, "unknown weighting method; valid: distance_distribution, distance_square")
	}
	if math.IsNaN(c.Sigma) || c.Sigma <= 0 {
		return configErr("sigma", c.Sigma, "must be positive")
	}
	if math.IsNaN(c.Expander) {
		return configErr("expander", c.Expander, "must be a number")
	}
	if math.IsNaN(c.DistancePower) {
		return configErr("distance_power", c.DistancePower, "must be a number")
	}
	if math.IsNaN(c.FrictionCoefficient) || c.FrictionCoefficient < 0 || c.FrictionCoefficient > 1 {
		return configErr("friction_coefficient", c.FrictionCoefficient, "must be in [0, 1]")
	}
	if c.Workers < 0 {
		return configErr("workers", c.Workers, "must be non-negative")
	}
	return nil
}

// MobilityConfig groups the options of the mobility-model simulator.
type MobilityConfig struct {
	NumberTowers int     `yaml:"number_towers" json:"number_towers"`
	NumberUsers  int     `yaml:"number_users" json:"number_users"`
	NumberCycles int     `yaml:"number_cycles" json:"number_cycles"`
	VelocityMin  float64 `yaml:"velocity_min" json:"velocity_min"`
	VelocityMax  float64 `yaml:"velocity_max" json:"velocity_max"`
	WaitTimeMax  int     `yaml:"wait_time_max" json:"wait_time_max"` // cycles
	Model        string  `yaml:"model" json:"model"`
	Repeat       int     `yaml:"repeat" json:"repeat"` // times the tower traces are tiled along the cycle axis
	RandomTowers bool    `yaml:"random_towers" json:"random_towers"`
	Verbose      bool    `yaml:"verbose" json:"verbose"`
	Seed         int64   `yaml:"seed" json:"seed"`
}

// DefaultMobilityConfig returns the stock mobility simulator configuration.
func DefaultMobilityConfig() MobilityConfig {
	return MobilityConfig{
		NumberTowers: 100,
		NumberUsers:  100,
		NumberCycles: 24,
		VelocityMin:  0.1,
		VelocityMax:  0.3,
		WaitTimeMax:  1,
		Model:        mobility.RandomWaypoint,
		Repeat:       1,
		Seed:         42,
	}
}

// Layout returns the tower layout kind selected by RandomTowers.
func (c MobilityConfig) Layout() geometry.LayoutKind {
	return layoutKind(c.RandomTowers)
}

// ModelParams returns the parameters handed to the mobility model.
func (c MobilityConfig) ModelParams() mobility.Params {
	return mobility.Params{
		Users:       c.NumberUsers,
		VelocityMin: c.VelocityMin,
		VelocityMax: c.VelocityMax,
		WaitTimeMax: c.WaitTimeMax,
	}
}

// Validate checks every field before any simulation work starts.
func (c MobilityConfig) Validate() error {
	if err := c.validateMotion(); err != nil {
		return err
	}
	if !mobility.IsValidModel(c.Model) {
		return configErr("model", c.Model, "unknown mobility model; valid: random_walk, random_waypoint, random_direction, stochastic_walk")
	}
	return nil
}

// validateMotion checks everything except the model name.
func (c MobilityConfig) validateMotion() error {
	if err := validateCounts(c.NumberTowers, c.NumberUsers, c.NumberCycles); err != nil {
		return err
	}
	if math.IsNaN(c.VelocityMin) || c.VelocityMin < 0 {
		return configErr("velocity_min", c.VelocityMin, "must be non-negative")
	}
	if math.IsNaN(c.VelocityMax) || c.VelocityMax < c.VelocityMin || c.VelocityMax > 1 {
		return configErr("velocity_max", c.VelocityMax, "must be in [velocity_min, 1]")
	}
	if c.WaitTimeMax < 0 {
		return configErr("wait_time_max", c.WaitTimeMax, "must be non-negative")
	}
	if c.Repeat < 1 {
		return configErr("repeat", c.Repeat, "must be at least 1")
	}
	return nil
}

func validateCounts(towers, users, cycles int) error {
	if towers <= 0 {
		return configErr("number_towers", towers, "must be positive")
	}
	if users <= 0 {
		return configErr("number_users", users, "must be positive")
	}
	if cycles <= 0 {
		return configErr("number_cycles", cycles, "must be positive")
	}
	return nil
}

func layoutKind(random bool) geometry.LayoutKind {
	if random {
		return geometry.LayoutRandom
	}
	return geometry.LayoutGrid
}
