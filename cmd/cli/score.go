package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/pslrisk/internal/application/dto"
	appservice "github.com/turtacn/pslrisk/internal/application/service"
	domainservice "github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/internal/infrastructure/persistence/memory"
	"github.com/turtacn/pslrisk/pkg/constants"
)

type scoreOptions struct {
	input    string
	output   string
	tenantID string
	lenient  bool
}

func newScoreCommand() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an activity snapshot read from a JSON file",
		Long: `Reads a calculate request body (employerId, employerSize, employeeCount, requests,
balances, alerts) from --input, or stdin when the input is "-", and prints the risk score.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "activity snapshot JSON file, or - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format: json or text")
	cmd.Flags().StringVar(&opts.tenantID, "tenant", "cli", "tenant ID stamped on the score")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "score feature vectors that fail validation")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runScore(ctx context.Context, stdin io.Reader, out io.Writer, opts *scoreOptions) error {
	if opts.output != "json" && opts.output != "text" {
		return fmt.Errorf("unsupported output format %q (want json or text)", opts.output)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader = stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var req dto.CalculateRequest
	if err := json.NewDecoder(reader).Decode(&req); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	cfg := appservice.DefaultRiskScoreAppServiceConfig()
	cfg.StrictValidation = !opts.lenient
	cfg.AlertsEnabled = false
	svc := appservice.NewRiskScoreAppService(cfg, appservice.RiskScoreAppServiceDeps{
		Cache:   memory.NewScoreCache(constants.DefaultScoreCacheTTL, constants.DefaultCacheCleanupInterval),
		History: memory.NewHistoryRepository(),
	})

	resp, err := svc.Calculate(ctx, opts.tenantID, &req, true)
	if err != nil {
		return err
	}

	if opts.output == "json" {
		return writeJSON(out, resp)
	}
	return writeScoreText(out, resp)
}

func writeScoreText(out io.Writer, resp *dto.CalculateResponse) error {
	s := resp.Score
	fmt.Fprintf(out, "Tenant:      %s\n", s.TenantID)
	fmt.Fprintf(out, "Score:       %.1f (%s)\n", s.OverallScore, s.RiskLevel)
	fmt.Fprintf(out, "Bracket:     %s (%d%% percentile)\n", s.RiskBracket.Label, s.RiskBracket.Percentile)
	fmt.Fprintf(out, "Confidence:  %.2f\n", s.Confidence)
	fmt.Fprintf(out, "Period:      %s\n\n", s.AnalysisPeriod.Quarter)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSCORE\tWEIGHT\tTREND")
	for _, f := range resp.Factors {
		fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%s\n", domainservice.CategoryLabel(f.Category), f.Score, f.Weight, f.Trend)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.PrimaryRiskDrivers) > 0 {
		fmt.Fprintf(out, "\nDrivers:\n  - %s\n", strings.Join(s.PrimaryRiskDrivers, "\n  - "))
	}
	if len(s.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, r := range s.Recommendations {
			fmt.Fprintf(out, "  [%s] %s\n", r.Priority, r.Title)
		}
	}
	fmt.Fprintf(out, "\n%s\n", resp.Message)
	return nil
}
