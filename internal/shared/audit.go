package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
)

// Audit actions recorded by the domain services.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionExport   = "document.export"
	ActionMerge    = "document.merge"
	ActionPreview  = "document.preview"
	ActionTermsSet = "terms.save"
)

// AuditLog is one row of audit_logs. ActorID defaults to the owner in
// context and At to the database clock.
type AuditLog struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

var errIncompleteAudit = errors.New("audit log requires action, entity and entity id")

// AuditLogger appends to audit_logs.
type AuditLogger struct {
	db db.Querier
}

// NewAuditLogger returns a logger writing through q.
func NewAuditLogger(q db.Querier) *AuditLogger {
	return &AuditLogger{db: q}
}

// Record persists the entry.
func (l *AuditLogger) Record(ctx context.Context, entry AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if entry.Action == "" || entry.Entity == "" || entry.EntityID == "" {
		return errIncompleteAudit
	}
	if entry.ActorID == "" {
		entry.ActorID, _ = OwnerFromContext(ctx)
	}
	var meta []byte
	if len(entry.Meta) > 0 {
		var err error
		if meta, err = json.Marshal(entry.Meta); err != nil {
			return err
		}
	}
	var at *time.Time
	if !entry.At.IsZero() {
		at = &entry.At
	}
	_, err := l.db.Exec(ctx, `INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`, entry.ActorID, entry.Action, entry.Entity, entry.EntityID, meta, at)
	return err
}
