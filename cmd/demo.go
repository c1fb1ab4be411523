package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/festival-sim/planner"
)

var demoOptimize bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Evaluate the fixed P0 -> P3 -> P2 demonstration schedule",
	Run: func(cmd *cobra.Command, args []string) {
		settingsFor(cmd)
		if err := runDemo(cmd.OutOrStdout(), demoOptimize); err != nil {
			logrus.Fatalf("Demo failed: %v", err)
		}
	},
}

// runDemo evaluates the demonstration schedule and, if asked, the optimizer's answer
// for the same catalog.
func runDemo(w io.Writer, optimize bool) error {
	m := planner.DemoModel()
	ev, err := planner.Evaluate(m, planner.DemoSchedule())
	if err != nil {
		return fmt.Errorf("evaluating demo schedule: %w", err)
	}
	if err := planner.PrintSummary(w, ev.Total, ev.Visits); err != nil {
		return err
	}
	if !optimize {
		return nil
	}
	res, err := planner.Optimize(m, planner.Options{})
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Optimizer (K=%d):\n", m.MaxChanges)
	return res.Print(w)
}

func init() {
	demoCmd.Flags().BoolVar(&demoOptimize, "optimize", false, "Also run the optimizer on the demo catalog")
	rootCmd.AddCommand(demoCmd)
}
