package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainservice "github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/pkg/utils"
)

func newFactorsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Print the factor weights and score thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := domainservice.GetFactorsConfig()
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tLABEL\tWEIGHT")
			for _, w := range cfg.Weights {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\n", w.Category, w.Label, w.Weight)
			}
			fmt.Fprintln(tw, "\nLEVEL\tMIN SCORE\t")
			for _, l := range cfg.RiskLevels {
				fmt.Fprintf(tw, "%s\t%.0f\t\n", l.Level, l.MinScore)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: json or text")
	return cmd
}

func newModelCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Print scoring model metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := domainservice.GetModelInfo()
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s v%s\n", info.Name, info.Version)
			fmt.Fprintf(out, "Features: %d, deterministic: %t\n", info.FeatureCount, info.Deterministic)
			fmt.Fprintln(out, info.Description)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: json or text")
	return cmd
}

func writeJSON(out io.Writer, v interface{}) error {
	body, err := utils.ToJSONPretty(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, body)
	return err
}
