package amqp

import (
	"encoding/json"
	"time"
)

// Mutation actions carried by audit events.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// AuditEvent records one ledger mutation. Events carry only identifiers;
// the consumer persists them without fetching the mutated row.
type AuditEvent struct {
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	RecordID  int64     `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAuditEvent creates an event stamped with the current time.
func NewAuditEvent(actor, action, entity string, recordID int64) *AuditEvent {
	return &AuditEvent{
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *AuditEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AuditEventFromJSON creates an event from JSON bytes.
func AuditEventFromJSON(data []byte) (*AuditEvent, error) {
	var e AuditEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
