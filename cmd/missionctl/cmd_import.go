package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/importer"
	"github.com/spf13/cobra"
)

// newImportKeyResultsCmd creates the "missionctl import-kr" subcommand.
func newImportKeyResultsCmd(open opener) *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "import-kr --org <id> <file.xlsx>",
		Short: "Apply a key result progress workbook to an organization",
		Long:  "Reads the first sheet of an .xlsx workbook as (key result title, value) rows\nand sets each matching key result's current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
				return fmt.Errorf("import-kr: %s is not an .xlsx file", path)
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("import-kr: %w", err)
			}
			defer f.Close()

			a, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("import-kr: %w", err)
			}
			defer a.Close()

			result, err := a.Import.ImportKeyResultsForOrganization(cmd.Context(), orgID, f)
			if err != nil {
				return fmt.Errorf("import-kr: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, row := range result.Rows {
				mark := "ok "
				if row.Status == importer.RowError {
					mark = "err"
				}
				fmt.Fprintf(out, "%s line %d %q: %s\n", mark, row.Line, row.Name, row.Message)
			}
			fmt.Fprintf(out, "%d rows, %d updated, %d failed\n", result.Total, result.Succeeded, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
