package stub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	movementDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/movement"
	"github.com/bodega-ag/inventory-gateway/internal/core/events"
)

type movementWriter interface {
	Create(m *movementDatamodel.Movimiento) error
}

// AuditRecorder turns record.* events into movement history rows.
type AuditRecorder struct {
	movements movementWriter
	now       func() time.Time
	logger    *slog.Logger
}

func NewAuditRecorder(movements movementWriter, logger *slog.Logger) *AuditRecorder {
	return &AuditRecorder{movements: movements, now: time.Now, logger: logger}
}

func (a *AuditRecorder) RegisterEventHandlers(bus *events.EventBus) {
	bus.SubscribeAll(events.RecordEventTypes, a.handleRecordChanged)
	a.logger.Info("audit event handlers registered", "event_types", len(events.RecordEventTypes))
}

func (a *AuditRecorder) handleRecordChanged(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.RecordChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	if ev.ActorID == 0 {
		a.logger.Warn("audit: record change without actor", "table", ev.Table, "record_id", ev.RecordID)
		return nil
	}
	row := &movementDatamodel.Movimiento{
		OcurridoEn:         a.now().UTC(),
		Accion:             ev.Action,
		Detalles:           ev.Details,
		TablaAfectada:      ev.Table,
		IDRegistroAfectado: ev.RecordID,
		IDUsuario:          ev.ActorID,
	}
	if err := a.movements.Create(row); err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	a.logger.Debug("audit: movement recorded",
		"action", ev.Action,
		"table", ev.Table,
		"record_id", ev.RecordID,
		"movement_id", row.ID)
	return nil
}
