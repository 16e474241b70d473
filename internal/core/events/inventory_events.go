package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event types published by the development upstream whenever a record changes.
// The suffix is the action recorded in the movement history.
const (
	EventTypeRecordInserted    = "record.INSERT"
	EventTypeRecordUpdated     = "record.UPDATE"
	EventTypeRecordActivated   = "record.ACTIVAR"
	EventTypeRecordDeactivated = "record.DESACTIVAR"
	EventTypeRecordRetired     = "record.BAJA"
)

// RecordEventTypes lists every record.* type, for audit subscribers.
var RecordEventTypes = []string{
	EventTypeRecordInserted,
	EventTypeRecordUpdated,
	EventTypeRecordActivated,
	EventTypeRecordDeactivated,
	EventTypeRecordRetired,
}

type RecordChangedEvent struct {
	BaseEvent
	Action   string `json:"action"`
	Table    string `json:"table"`
	RecordID int64  `json:"record_id"`
	ActorID  int64  `json:"actor_id"`
	Details  string `json:"details"`
}

func NewRecordChangedEvent(eventType, table string, recordID, actorID int64, details string) *RecordChangedEvent {
	action := strings.TrimPrefix(eventType, "record.")
	return &RecordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"action":    action,
				"table":     table,
				"record_id": recordID,
				"actor_id":  actorID,
				"details":   details,
			},
		},
		Action:   action,
		Table:    table,
		RecordID: recordID,
		ActorID:  actorID,
		Details:  details,
	}
}
