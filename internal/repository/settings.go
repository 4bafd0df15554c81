package repository

import (
	"context"
	"errors"

	"github.com/pebec/beepa-tracker/internal/database"
)

// accessCodeRecord is the fixed record id for the singleton settings row
// holding the legacy registration code hash.
const accessCodeRecord = "settings:access_code"

// SettingsRepository stores system-wide settings as singleton records.
type SettingsRepository struct {
	db database.Database
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db database.Database) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAccessCodeHash returns the stored registration code hash, or "" when no
// code has been configured yet.
func (r *SettingsRepository) GetAccessCodeHash(ctx context.Context) (string, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": accessCodeRecord}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	rec, ok := asRecord(result)
	if !ok {
		return "", database.ErrQuery
	}
	return getString(rec, "code_hash"), nil
}

// SetAccessCodeHash upserts the registration code hash.
func (r *SettingsRepository) SetAccessCodeHash(ctx context.Context, hash string) error {
	query := `
		UPSERT type::record($id) SET
			code_hash = $code_hash,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        accessCodeRecord,
		"code_hash": hash,
	}
	return r.db.Execute(ctx, query, vars)
}
