package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSyncCmd creates the "missionctl sync" subcommand.
func newSyncCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull today's Google Calendar events for every connected user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			defer a.Close()

			result, err := a.Calendar.SyncAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d events for %d users (%d failed)\n", result.Events, result.Users, result.Failed)
			return nil
		},
	}
}
