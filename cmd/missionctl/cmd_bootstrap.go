package main

import (
	"fmt"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/spf13/cobra"
)

// newBootstrapCmd creates the "missionctl bootstrap" subcommand.
func newBootstrapCmd(open opener) *cobra.Command {
	var req organization.BootstrapRequest

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create an organization and its first executive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}

			a, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer a.Close()

			org, err := a.Organization.Bootstrap(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created organization %s (%s), executive %s\n", org.Name, org.ID, req.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "organization name")
	cmd.Flags().StringVar(&req.Slug, "slug", "", "organization slug")
	cmd.Flags().StringVar(&req.ExecutiveName, "executive-name", "", "executive display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "executive login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "executive initial password")
	for _, name := range []string{"name", "slug", "executive-name", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
