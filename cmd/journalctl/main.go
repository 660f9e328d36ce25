// Command journalctl runs maintenance tasks against the journal database:
// contact import and export, one-off reminder runs, backups, user removal
// and schema migrations.
//
// Configuration is read the same way as the server (CONFIG_PATH or the
// environment).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gratitude-backend/internal/app"
	"github.com/heartmarshall/gratitude-backend/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "journalctl",
		Short:         "Maintenance commands for the gratitude journal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(contactsCmd())
	root.AddCommand(remindersCmd())
	root.AddCommand(backupCmd())
	root.AddCommand(usersCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}

// runtime is the wiring shared by commands that touch the database.
type runtime struct {
	cfg     *config.Config
	log     *slog.Logger
	backend *app.Backend
	c       *app.Container
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg.Log)

	be, err := app.OpenBackend(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	c, err := app.NewContainer(ctx, cfg, be, logger)
	if err != nil {
		be.Close()
		return nil, err
	}
	return &runtime{cfg: cfg, log: logger, backend: be, c: c}, nil
}

func (r *runtime) Close() {
	r.c.Close()
	r.backend.Close()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applied, err := app.MigrateBackend(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d migration(s) applied\n", cfg.Database.Driver, applied)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
