package model

import "time"

// AuditEntityType identifies the kind of record an audit entry refers to.
type AuditEntityType string

const (
	AuditEntityMDA      AuditEntityType = "mda"
	AuditEntityReform   AuditEntityType = "reform"
	AuditEntityActivity AuditEntityType = "activity"
)

// AuditAction identifies what happened to the entity.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog is an append-only record written on every tracked mutation.
type AuditLog struct {
	ID            string                 `json:"id"`
	EntityType    AuditEntityType        `json:"entity_type"`
	EntityID      string                 `json:"entity_id"`
	Action        AuditAction            `json:"action"`
	PreviousValue map[string]interface{} `json:"previous_value,omitempty"`
	NewValue      map[string]interface{} `json:"new_value,omitempty"`
	UserID        *string                `json:"user_id,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}
