package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/mission-backend-go/internal/app"
	"github.com/cmlabs-hris/mission-backend-go/internal/config"
	"github.com/spf13/cobra"
)

// opener builds the application for a single command run.
type opener func(ctx context.Context) (*app.App, error)

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return app.New(ctx, cfg)
}

// newRootCmd creates the root missionctl command with all subcommands attached.
func newRootCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "missionctl",
		Short:         "Mission tracker maintenance commands",
		Long:          "missionctl runs calendar syncs, key result imports and time reports\nwithout going through the HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newSyncCmd(open),
		newImportKeyResultsCmd(open),
		newReportCmd(open),
		newBootstrapCmd(open),
	)

	return cmd
}
