package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/festival-sim/planner"
	"github.com/inference-sim/festival-sim/planner/scenario"
	"github.com/inference-sim/festival-sim/planner/trace"
)

var (
	// Flags shared by every command
	configPath string // YAML settings file
	logLevel   string // Log verbosity level

	// CLI flags for festival inputs and the optimizer
	inputPath   string // Scenario path, "-" for stdin
	inputFormat string // auto, stream, yaml
	strategy    string // DP sweep strategy
	maxChanges  int    // Stage-change budget override (-1 keeps the input's K)
	prompt      bool   // Print console prompts while reading the integer stream

	// CLI flags for results
	outputFormat string // text, json, yaml
	resultsPath  string // File to save the JSON report to
	traceLevel   string // Relaxation trace verbosity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "festival-sim",
	Short: "Festival attendance schedule optimizer",
}

// settingsFor loads layered settings for cmd, applies its flags and configures logging.
func settingsFor(cmd *cobra.Command) Settings {
	s, err := LoadSettings(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load settings: %v", err)
	}
	applyFlagOverrides(cmd, &s)

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", s.LogLevel)
	}
	logrus.SetLevel(level)

	if err := s.Validate(); err != nil {
		logrus.Fatalf("Invalid settings: %v", err)
	}
	return s
}

// runCmd optimizes one festival scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the schedule with maximum satisfaction",
	Long: "Read stages, performances, travel times and combo bonuses, then print the maximum " +
		"satisfaction and the schedule that achieves it. Input is the whitespace integer stream " +
		"(S P K, distances, performances, combos) or a YAML scenario.",
	Run: func(cmd *cobra.Command, args []string) {
		s := settingsFor(cmd)
		var promptTo io.Writer
		if prompt {
			promptTo = cmd.ErrOrStderr()
		}
		if err := runPlan(cmd.OutOrStdout(), s, inputPath, maxChanges, promptTo, resultsPath); err != nil {
			logrus.Fatalf("Optimization failed: %v", err)
		}
	},
}

// runPlan loads the model, optimizes it and writes the report to w.
func runPlan(w io.Writer, s Settings, input string, budget int, promptTo io.Writer, savePath string) error {
	log := logrus.WithField("run", uuid.NewString())

	m, err := scenario.Load(input, scenario.Format(s.Format), scenario.StreamOptions{Prompt: promptTo})
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	if budget >= 0 {
		if m, err = m.WithMaxChanges(budget); err != nil {
			return err
		}
	}
	log.Infof("Loaded %d stages, %d performances, %d combos, stage-change budget %d",
		m.Stages, len(m.Performances), len(m.Combos), m.MaxChanges)

	rt := trace.NewRelaxationTrace(trace.Level(s.Trace))
	res, err := planner.Optimize(m, planner.Options{Strategy: planner.Strategy(s.Strategy), Trace: rt})
	if err != nil {
		return err
	}
	log.Infof("Maximum satisfaction %d over %d visits (%s, %d sweeps)",
		res.MaxSatisfaction, len(res.Schedule), res.Strategy, res.Sweeps)

	rep := planner.NewReport(m, res)
	if rt.Enabled() {
		rep.Trace = trace.Summarize(rt)
		log.Debugf("Relaxation trace: %d transitions, %d improvements, by outcome %v",
			rep.Trace.TotalTransitions, rep.Trace.Improvements, rep.Trace.ByOutcome)
	}
	if savePath != "" {
		if err := rep.Save(savePath); err != nil {
			return err
		}
	}
	return rep.Write(w, s.Output)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addInputFlags registers the flags every scenario-reading command shares.
func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inputPath, "input", "-", "Scenario path (integer stream or YAML); - reads stdin")
	c.Flags().StringVar(&inputFormat, "format", string(scenario.FormatAuto), "Input format (auto, stream, yaml)")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings file (default $FESTIVAL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addInputFlags(runCmd)
	runCmd.Flags().StringVar(&strategy, "strategy", string(planner.StrategyEndTime), "DP sweep strategy (end-time, fixed-point, index-order)")
	runCmd.Flags().IntVar(&maxChanges, "max-changes", -1, "Override the stage-change budget K (-1 keeps the input's value)")
	runCmd.Flags().BoolVar(&prompt, "prompt", false, "Print input prompts to stderr while reading the integer stream")
	runCmd.Flags().StringVar(&outputFormat, "output", planner.FormatText, "Output format (text, json, yaml)")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "Also save the JSON report to this file")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.LevelNone), "Relaxation trace level (none, relaxations)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
