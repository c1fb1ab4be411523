package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/festival-sim/planner"
	"github.com/inference-sim/festival-sim/planner/scenario"
)

var evaluateOrder []int

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a hand-picked schedule",
	Long: "Arrive at each listed performance as early as travel allows, check the schedule " +
		"against timing and the stage-change budget, and print its total satisfaction.",
	Run: func(cmd *cobra.Command, args []string) {
		s := settingsFor(cmd)
		if err := runEvaluate(cmd.OutOrStdout(), s, inputPath, evaluateOrder); err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
	},
}

func runEvaluate(w io.Writer, s Settings, input string, order []int) error {
	m, err := scenario.Load(input, scenario.Format(s.Format), scenario.StreamOptions{})
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	visits, err := planner.PlanVisits(m, order)
	if err != nil {
		return err
	}
	ev, err := planner.Evaluate(m, visits)
	if err != nil {
		return err
	}
	if err := planner.PrintSummary(w, ev.Total, ev.Visits); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Stage changes: %d of %d\n", ev.StageChanges, m.MaxChanges)
	return err
}

func init() {
	addInputFlags(evaluateCmd)
	evaluateCmd.Flags().IntSliceVar(&evaluateOrder, "order", nil, "Comma-separated performance ids in watch order")
	_ = evaluateCmd.MarkFlagRequired("order")
	rootCmd.AddCommand(evaluateCmd)
}
