package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newReportCmd creates the "missionctl report" subcommand.
func newReportCmd(open opener) *cobra.Command {
	var (
		orgID  string
		req    report.TimeReportRequest
		userID string
		format string
	)

	cmd := &cobra.Command{
		Use:   "report --org <id>",
		Short: "Print an organization's time report as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("report: unknown format %q", format)
			}
			if userID != "" {
				req.UserID = &userID
			}

			a, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			defer a.Close()

			result, err := a.Report.BuildTimeReport(cmd.Context(), orgID, req)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}

			return writeReport(cmd.OutOrStdout(), format, result)
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id")
	cmd.Flags().StringVar(&req.Period, "period", string(report.PeriodThisMonth), "this_week, this_month, last_month or custom")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "first day of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "last day of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&userID, "user", "", "limit the report to one user id")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

// writeReport keeps the JSON field names in YAML output.
func writeReport(w io.Writer, format string, result report.TimeReportResponse) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}
