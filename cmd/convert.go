package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/festival-sim/planner/scenario"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a scenario between the integer stream and YAML",
	Long:  "Read a scenario in either format and write it in the other. Output is written to stdout for piping.",
	Run: func(cmd *cobra.Command, args []string) {
		s := settingsFor(cmd)
		if err := runConvert(cmd.OutOrStdout(), s, inputPath, scenario.Format(convertTo)); err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
	},
}

func runConvert(w io.Writer, s Settings, input string, to scenario.Format) error {
	m, err := scenario.Load(input, scenario.Format(s.Format), scenario.StreamOptions{})
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	switch to {
	case scenario.FormatYAML:
		return scenario.FromModel(m).Write(w)
	case scenario.FormatStream:
		return scenario.WriteStream(w, m)
	default:
		return fmt.Errorf("unknown target format %q; valid: stream, yaml", to)
	}
}

func init() {
	addInputFlags(convertCmd)
	convertCmd.Flags().StringVar(&convertTo, "to", string(scenario.FormatYAML), "Target format (stream, yaml)")
	rootCmd.AddCommand(convertCmd)
}
