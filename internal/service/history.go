package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
)

// History lists the maintenance logged against equipment.
type History struct {
	reader repo.Reader[domain.MaintenanceLog]
	limit  int
	log    *slog.Logger
}

// NewHistory constructs a History over reader. At most limits.Scan logs are
// returned per piece of equipment.
func NewHistory(reader repo.Reader[domain.MaintenanceLog], limits Limits, opts ...Option) *History {
	o := buildOptions(opts)
	return &History{reader: reader, limit: limits.withDefaults().Scan, log: o.logger}
}

// Detail returns e with its maintenance logs, latest maintenance date first
// and undated logs last. Store failures are wrapped in
// domain.ErrStoreUnavailable.
func (h *History) Detail(ctx context.Context, e domain.Equipment) (domain.EquipmentDetail, error) {
	logs, err := h.reader.Find(ctx, repo.Query{
		AnyOf: []repo.Predicate{repo.RefEquals(repo.FieldEquipmentID, e.ID)},
		Order: repo.OrderByRecent,
		Limit: h.limit,
	})
	if err != nil {
		return domain.EquipmentDetail{}, fmt.Errorf("service.History.Detail: %w: %w", domain.ErrStoreUnavailable, err)
	}
	h.log.DebugContext(ctx, "maintenance history loaded", "equipment_id", e.ID, "logs", len(logs))
	return domain.EquipmentDetail{Equipment: e, Maintenance: logs}, nil
}
