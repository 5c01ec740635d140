// Package cli implements the farmctl command line tool: migrations,
// identifier resolution and search over the same services the API uses.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pkordes/farm-logbook/backend/internal/app"
	"github.com/pkordes/farm-logbook/backend/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "csv"

	// Open builds the App a command runs against. Defaults to loading the
	// configuration from the environment.
	Open func(ctx context.Context, log *slog.Logger) (*app.App, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "csv"}

// NewRootCommand creates the root command for farmctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Open: openFromEnv}

	cmd := &cobra.Command{
		Use:   "farmctl",
		Short: "farmctl - farm logbook records from the command line",
		Long: `Resolve and search farm records (equipment, buildings, locations and
maintenance logs) by slug, name or id.

The record store is configured with the same environment variables as the
API server (STORE_DRIVER, DATABASE_URL, SQLITE_PATH, FARMLOG_CONFIG).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|csv)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewTypeaheadCommand(opts))

	return cmd
}

func openFromEnv(ctx context.Context, log *slog.Logger) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configuration error", err)
	}
	return app.New(ctx, cfg, log, nil)
}

// open builds the App for cmd, logging to stderr so output stays parseable.
func (o *RootOptions) open(cmd *cobra.Command) (*app.App, error) {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return o.Open(cmd.Context(), log)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
