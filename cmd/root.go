package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracesim/tracesim/sim"
)

var (
	// Shared CLI flags
	configPath   string // YAML config file (optional)
	outputPath   string // JSON result file (optional; summary goes to stdout otherwise)
	logLevel     string // Log verbosity level
	seed         int64  // Master seed for every random stream
	numTowers    int    // Requested tower count (grid layouts round up to a square)
	numUsers     int    // Number of simulated users
	numCycles    int    // Trace length in cycles
	randomTowers bool   // Uniform random tower layout instead of a grid
	verbose      bool   // Log per-stage timings

	// Trace simulator flags
	method        string  // Distance weighting method
	expander      float64 // Near/far contrast for distance_distribution
	sigma         float64 // Decay width for distance_distribution
	distancePower float64 // Exponent for distance_square
	friction      float64 // Inertia kept between cycles, in [0,1]
	workers       int     // Parallel trace workers (0 = GOMAXPROCS)

	// Mobility simulator flags
	velocityMin   float64 // Minimum user speed per cycle
	velocityMax   float64 // Maximum user speed per cycle
	waitTimeMax   int     // Maximum pause in cycles
	mobilityModel string  // Mobility model name
	repeat        int     // Times tower traces are tiled along the cycle axis
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "tracesim",
	Short: "Synthetic mobile-user trace generator over a tower network",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// runCmd executes the kernel-driven trace simulation
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate traces with the distance-weighted inertial transition kernel",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg := applyTraceFlags(cmd, *file.Trace)
		raiseLogLevelForVerbose(cmd, cfg.Verbose)

		logrus.Infof("Starting trace simulation: towers=%d users=%d cycles=%d method=%s seed=%d",
			cfg.NumberTowers, cfg.NumberUsers, cfg.NumberCycles, cfg.Method, cfg.Seed)
		result, err := sim.Generate(cfg)
		if err != nil {
			return err
		}
		if err := saveTraceResult(cmd.OutOrStdout(), outputPath, cfg, result); err != nil {
			return err
		}
		logrus.Info("Simulation complete.")
		return nil
	},
}

// mobilityCmd executes the mobility-model simulation
var mobilityCmd = &cobra.Command{
	Use:   "mobility",
	Short: "Generate traces by snapping a mobility model's positions to the nearest tower",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg := applyMobilityFlags(cmd, *file.Mobility)
		raiseLogLevelForVerbose(cmd, cfg.Verbose)

		logrus.Infof("Starting mobility simulation: towers=%d users=%d cycles=%d model=%s seed=%d",
			cfg.NumberTowers, cfg.NumberUsers, cfg.NumberCycles, cfg.Model, cfg.Seed)
		result, err := sim.GenerateMobility(cfg)
		if err != nil {
			return err
		}
		if err := saveMobilityResult(cmd.OutOrStdout(), outputPath, cfg, result); err != nil {
			return err
		}
		logrus.Info("Simulation complete.")
		return nil
	},
}

// raiseLogLevelForVerbose makes per-stage timings visible when verbose is on
// and the user did not pick a log level explicitly.
func raiseLogLevelForVerbose(cmd *cobra.Command, verbose bool) {
	if verbose && !cmd.Flags().Changed("log") && !logrus.IsLevelEnabled(logrus.InfoLevel) {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	traceDefaults := sim.DefaultConfig()
	mobilityDefaults := sim.DefaultMobilityConfig()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file with trace/mobility sections")
	rootCmd.PersistentFlags().StringVar(&outputPath, "out", "", "Write the full result as JSON to this path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", traceDefaults.Seed, "Seed for every random stream")
	rootCmd.PersistentFlags().IntVar(&numTowers, "towers", traceDefaults.NumberTowers, "Number of towers (grid layouts round up to a square)")
	rootCmd.PersistentFlags().IntVar(&numUsers, "users", traceDefaults.NumberUsers, "Number of users")
	rootCmd.PersistentFlags().IntVar(&numCycles, "cycles", traceDefaults.NumberCycles, "Number of cycles per trace")
	rootCmd.PersistentFlags().BoolVar(&randomTowers, "random-towers", false, "Place towers uniformly at random instead of on a grid")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log per-stage timings")

	runCmd.Flags().StringVar(&method, "method", traceDefaults.Method, "Distance weighting method (distance_distribution, distance_square)")
	runCmd.Flags().Float64Var(&expander, "expander", traceDefaults.Expander, "Near/far contrast for distance_distribution")
	runCmd.Flags().Float64Var(&sigma, "sigma", traceDefaults.Sigma, "Decay width for distance_distribution")
	runCmd.Flags().Float64Var(&distancePower, "distance-power", traceDefaults.DistancePower, "Exponent for distance_square")
	runCmd.Flags().Float64Var(&friction, "friction", traceDefaults.FrictionCoefficient, "Fraction of velocity kept between cycles, in [0,1]")
	runCmd.Flags().IntVar(&workers, "workers", traceDefaults.Workers, "Parallel trace workers (0 = GOMAXPROCS)")

	mobilityCmd.Flags().Float64Var(&velocityMin, "velocity-min", mobilityDefaults.VelocityMin, "Minimum user speed per cycle")
	mobilityCmd.Flags().Float64Var(&velocityMax, "velocity-max", mobilityDefaults.VelocityMax, "Maximum user speed per cycle")
	mobilityCmd.Flags().IntVar(&waitTimeMax, "wait-time-max", mobilityDefaults.WaitTimeMax, "Maximum pause in cycles")
	mobilityCmd.Flags().StringVar(&mobilityModel, "model", mobilityDefaults.Model, "Mobility model (random_walk, random_waypoint, random_direction, stochastic_walk)")
	mobilityCmd.Flags().IntVar(&repeat, "repeat", mobilityDefaults.Repeat, "Times tower traces are tiled along the cycle axis")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mobilityCmd)
}
