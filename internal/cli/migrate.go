package cli

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the record store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Migrate(cmd.Context())
			if err != nil {
				return err
			}

			out := rootOpts.formatter(cmd)
			switch out.Format {
			case "json":
				return out.JSON(map[string]any{"driver": a.Store.Driver(), "applied": n})
			case "csv":
				return out.CSV([]string{"driver", "applied"}, [][]string{{a.Store.Driver(), itoa(n)}})
			}
			return out.Line("%s: applied %d migration(s)", a.Store.Driver(), n)
		},
	}
}
