package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/festival-sim/planner"
	"github.com/inference-sim/festival-sim/planner/scenario"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show the optimum for every stage-change budget up to K",
	Run: func(cmd *cobra.Command, args []string) {
		s := settingsFor(cmd)
		if err := runBudget(cmd.OutOrStdout(), s, inputPath); err != nil {
			logrus.Fatalf("Budget sweep failed: %v", err)
		}
	},
}

func runBudget(w io.Writer, s Settings, input string) error {
	m, err := scenario.Load(input, scenario.Format(s.Format), scenario.StreamOptions{})
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	points, err := planner.SweepBudget(m, planner.Options{Strategy: planner.Strategy(s.Strategy)})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "K\tMAX SATISFACTION\tCHANGES USED")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", p.MaxChanges, p.MaxSatisfaction, p.StageChanges)
	}
	return tw.Flush()
}

func init() {
	addInputFlags(budgetCmd)
	budgetCmd.Flags().StringVar(&strategy, "strategy", string(planner.StrategyEndTime), "DP sweep strategy (end-time, fixed-point, index-order)")
	rootCmd.AddCommand(budgetCmd)
}
