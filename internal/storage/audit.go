package storage

import (
	"context"
	"time"
)

// AuditEntry is one persisted record of a ledger mutation.
type AuditEntry struct {
	ID         int64
	OccurredAt time.Time
	Actor      string
	Action     string
	Entity     string
	RecordID   int64
}

// InsertAuditEntry appends a mutation record to the audit log.
func (s *Store) InsertAuditEntry(ctx context.Context, e AuditEntry) error {
	return s.Exec(ctx, "insert audit entry",
		`INSERT INTO audit_log (occurred_at, actor, action, entity, record_id) VALUES (?, ?, ?, ?, ?)`,
		formatTimestamp(e.OccurredAt), e.Actor, e.Action, e.Entity, e.RecordID)
}

// ListAuditEntries returns the newest audit records first, capped at limit.
func (s *Store) ListAuditEntries(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, occurred_at, actor, action, entity, record_id
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, &QueryError{Op: "list audit entries", Err: err}
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var (
			e       AuditEntry
			dateStr string
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Actor, &e.Action, &e.Entity, &e.RecordID); err != nil {
			return nil, &QueryError{Op: "scan audit entry", Err: err}
		}
		e.OccurredAt, err = parseTime(dateStr)
		if err != nil {
			return nil, &QueryError{Op: "scan audit entry", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "list audit entries", Err: err}
	}
	return entries, nil
}
