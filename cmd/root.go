package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hemsim/hemsim/sim"
	"github.com/hemsim/hemsim/sim/trace"
)

var (
	// CLI flags shared by run and realtime
	householdPath string  // Household YAML file; empty selects the default household
	scenarioPath  string  // Scenario YAML file
	horizonHours  float64 // Simulation end, in hours; overrides the scenario's end_hours
	logLevel      string  // Log verbosity level
	resultsPath   string  // File to save the run report to

	// CLI flags for run
	traceLevel string // Transition trace verbosity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hemsim",
	Short: "Discrete-event simulator for household energy models",
}

// runCmd executes a discrete-event simulation of the household
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario against the household, as fast as possible",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid trace level %q; valid: none, transitions", traceLevel)
		}

		startTime := time.Now()
		report, err := runSimulation(householdPath, scenarioPath, horizonHours, trace.TraceLevel(traceLevel))
		if err != nil {
			return err
		}
		report.Print()
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
		return report.SaveResults(resultsPath)
	},
}

// runSimulation builds the household, applies the scenario and runs it.
func runSimulation(householdFile, scenarioFile string, horizon float64, level trace.TraceLevel) (*sim.RunReport, error) {
	house, err := loadHousehold(householdFile)
	if err != nil {
		return nil, err
	}
	spec, err := loadScenario(scenarioFile)
	if err != nil {
		return nil, err
	}
	end, err := resolveHorizon(horizon, spec.Horizon())
	if err != nil {
		return nil, err
	}

	s := sim.NewSimulator(sim.Config{Horizon: end, Trace: trace.TraceConfig{Level: level}})
	if err := house.Build(s); err != nil {
		return nil, err
	}
	if err := spec.Apply(s); err != nil {
		return nil, err
	}
	return s.Run()
}

// resolveHorizon picks the CLI horizon when set, the scenario's otherwise.
func resolveHorizon(flagHours float64, scenarioEnd sim.Instant) (sim.Instant, error) {
	if flagHours == 0 {
		return scenarioEnd, nil
	}
	if flagHours < 0 || math.IsNaN(flagHours) || math.IsInf(flagHours, 0) {
		return 0, fmt.Errorf("horizon-hours must be a positive number, got %f", flagHours)
	}
	return sim.AtHours(flagHours), nil
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, realtimeCmd} {
		c.Flags().StringVar(&householdPath, "household", "", "Household YAML file (default: one appliance of each kind)")
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file")
		c.Flags().Float64Var(&horizonHours, "horizon-hours", 0, "Simulation end in hours (default: the scenario's end_hours)")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&resultsPath, "results", "", "File to save the run report to (default: stdout)")
	}
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Transition trace level (none, transitions)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(realtimeCmd)
	rootCmd.AddCommand(appliancesCmd)
}
