package repository

import (
	"context"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// AuditRepository handles the append-only audit log
type AuditRepository struct {
	db database.Database
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db database.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit entry. Entries are never updated or deleted.
func (r *AuditRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	query := `
		CREATE audit_log CONTENT {
			entity_type: $entity_type,
			entity_id: $entity_id,
			action: $action,
			previous_value: IF $previous IS NOT NULL THEN $previous ELSE NONE END,
			new_value: IF $new IS NOT NULL THEN $new ELSE NONE END,
			user_id: IF $user_id IS NOT NULL THEN $user_id ELSE NONE END,
			timestamp: time::now()
		}
	`
	vars := map[string]interface{}{
		"entity_type": string(entry.EntityType),
		"entity_id":   entry.EntityID,
		"action":      string(entry.Action),
		"previous":    mapToNone(entry.PreviousValue),
		"new":         mapToNone(entry.NewValue),
		"user_id":     ptrToNone(entry.UserID),
	}
	return r.db.Execute(ctx, query, vars)
}

// ListByEntity returns the audit trail for one entity, newest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityID string, limit int) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_log WHERE entity_id = $entity_id ORDER BY timestamp DESC LIMIT $limit`
	vars := map[string]interface{}{
		"entity_id": entityID,
		"limit":     limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	entries := make([]*model.AuditLog, 0, len(records))
	for _, rec := range records {
		entry, err := parseAuditLog(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseAuditLog(result interface{}) (*model.AuditLog, error) {
	rec, ok := asRecord(result)
	if !ok {
		return nil, database.ErrQuery
	}
	entry := &model.AuditLog{
		ID:         extractRecordID(rec["id"]),
		EntityType: model.AuditEntityType(getString(rec, "entity_type")),
		EntityID:   getString(rec, "entity_id"),
		Action:     model.AuditAction(getString(rec, "action")),
		UserID:     getStringPtr(rec, "user_id"),
		Timestamp:  getTimeOrZero(rec, "timestamp"),
	}
	if prev, ok := rec["previous_value"].(map[string]interface{}); ok {
		entry.PreviousValue = prev
	}
	if next, ok := rec["new_value"].(map[string]interface{}); ok {
		entry.NewValue = next
	}
	return entry, nil
}

// mapToNone converts a nil map to nil interface for SurrealDB NONE handling
func mapToNone(m map[string]interface{}) interface{} {
	if m == nil {
		return nil
	}
	return m
}
