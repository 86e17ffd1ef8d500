// Package worker persists consumed audit events into the audit log table.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"shopledger/internal/amqp"
	"shopledger/internal/storage"
)

// AuditStore is the persistence surface the worker writes through.
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, e storage.AuditEntry) error
}

// AuditWorker turns queued audit events into audit_log rows. A failed
// insert is reported to the consumer so the delivery gets redelivered.
type AuditWorker struct {
	store AuditStore
}

func NewAuditWorker(store AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleAuditEvent processes a single audit event from AMQP.
func (w *AuditWorker) HandleAuditEvent(ctx context.Context, event *amqp.AuditEvent) error {
	slog.InfoContext(ctx, "Processing audit event",
		"actor", event.Actor,
		"action", event.Action,
		"entity", event.Entity,
		"record_id", event.RecordID)

	entry := storage.AuditEntry{
		OccurredAt: event.Timestamp,
		Actor:      event.Actor,
		Action:     event.Action,
		Entity:     event.Entity,
		RecordID:   event.RecordID,
	}

	if err := w.store.InsertAuditEntry(ctx, entry); err != nil {
		return fmt.Errorf("persist audit entry: %w", err)
	}

	return nil
}
