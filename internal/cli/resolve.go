package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkordes/farm-logbook/backend/internal/app"
	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

// ResolveResult is the JSON output of the resolve command.
type ResolveResult struct {
	Kind       domain.Kind   `json:"kind"`
	ResolvedBy service.Stage `json:"resolved_by"`
	Data       any           `json:"data"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <kind> <identifier>",
		Short: "Resolve a slug, name or id to one record",
		Long: `Resolve a human-friendly identifier to exactly one record.

kind is one of equipment, building, location or maintenance. The identifier
may be a slug ("big-red"), a display name ("Big Red"), part of a name, or an id.
Equipment is printed with its maintenance history, newest first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid kind", err)
			}

			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, stage, err := resolve(cmd.Context(), a, kind, args[1])
			if err != nil {
				return err
			}
			return writeResolved(rootOpts.formatter(cmd), rec, stage)
		},
	}
}

// resolve dispatches to the resolver for kind.
func resolve(ctx context.Context, a *app.App, kind domain.Kind, identifier string) (domain.Entity, service.Stage, error) {
	switch kind {
	case domain.KindEquipment:
		res, err := a.Equipment.Resolve(ctx, identifier)
		if err != nil {
			return nil, "", err
		}
		detail, err := a.History.Detail(ctx, res.Record)
		if err != nil {
			return nil, "", err
		}
		return detail, res.Stage, nil
	case domain.KindBuilding:
		return resolveWith(ctx, a.Buildings, identifier)
	case domain.KindLocation:
		return resolveWith(ctx, a.Locations, identifier)
	default:
		return resolveWith(ctx, a.Maintenance, identifier)
	}
}

func resolveWith[T domain.Entity](ctx context.Context, r *service.Resolver[T], identifier string) (domain.Entity, service.Stage, error) {
	res, err := r.Resolve(ctx, identifier)
	if err != nil {
		return nil, "", err
	}
	return res.Record, res.Stage, nil
}

func writeResolved(out *OutputFormatter, rec domain.Entity, stage service.Stage) error {
	switch out.Format {
	case "json":
		return out.JSON(ResolveResult{Kind: rec.Kind(), ResolvedBy: stage, Data: rec})
	case "csv":
		return out.CSV(resolvedCSVHeaders, [][]string{{
			string(rec.Kind()), rec.EntityID().String(), rec.DisplayName(), rec.Detail(), string(stage),
		}})
	}
	if err := out.Line("%s  [%s]", displayLabel(rec), stage); err != nil {
		return err
	}
	if d := rec.Detail(); d != "" {
		if err := out.Line("  %s", d); err != nil {
			return err
		}
	}
	if err := out.Line("  id: %s", rec.EntityID()); err != nil {
		return err
	}
	if d, ok := rec.(domain.EquipmentDetail); ok {
		return writeMaintenance(out, d.Maintenance)
	}
	return nil
}

func writeMaintenance(out *OutputFormatter, logs []domain.MaintenanceLog) error {
	if len(logs) == 0 {
		return out.Line("  maintenance: none")
	}
	if err := out.Line("  maintenance:"); err != nil {
		return err
	}
	for _, m := range logs {
		date := m.MaintenanceDate
		if date == "" {
			date = "undated"
		}
		line := fmt.Sprintf("    %-10s  %s", date, m.Headline())
		if m.Status != "" {
			line += "  [" + m.Status + "]"
		}
		if err := out.Line("%s", line); err != nil {
			return err
		}
	}
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }
