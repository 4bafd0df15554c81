package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// MDARepository handles MDA data access
type MDARepository struct {
	db database.Database
}

// NewMDARepository creates a new MDA repository
func NewMDARepository(db database.Database) *MDARepository {
	return &MDARepository{db: db}
}

// Create creates a new MDA
func (r *MDARepository) Create(ctx context.Context, mda *model.MDA) error {
	query := `
		CREATE mda CONTENT {
			name: $name,
			abbreviation: IF $abbreviation IS NOT NULL THEN $abbreviation ELSE NONE END,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":         mda.Name,
		"abbreviation": ptrToNone(mda.Abbreviation),
		"description":  ptrToNone(mda.Description),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: MDA name already exists", database.ErrDuplicate)
		}
		return err
	}

	created, ok := asRecord(result)
	if !ok {
		return database.ErrQuery
	}
	mda.ID = extractRecordID(created["id"])
	mda.CreatedOn = getTimeOrZero(created, "created_on")
	mda.UpdatedOn = getTimeOrZero(created, "updated_on")
	return nil
}

// GetByID retrieves an MDA by ID
func (r *MDARepository) GetByID(ctx context.Context, id string) (*model.MDA, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseMDA(result)
}

// GetByName retrieves an MDA by exact name
func (r *MDARepository) GetByName(ctx context.Context, name string) (*model.MDA, error) {
	query := `SELECT * FROM mda WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseMDA(result)
}

// List returns all MDAs ordered by name
func (r *MDARepository) List(ctx context.Context) ([]*model.MDA, error) {
	query := `SELECT * FROM mda ORDER BY name ASC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	mdas := make([]*model.MDA, 0, len(records))
	for _, rec := range records {
		mda, err := parseMDA(rec)
		if err != nil {
			return nil, err
		}
		mdas = append(mdas, mda)
	}
	return mdas, nil
}

// Update patches the mutable MDA fields. Nil pointers leave the stored value
// untouched.
func (r *MDARepository) Update(ctx context.Context, id string, name, abbreviation, description *string) error {
	query := `
		UPDATE type::record($id) SET
			name = IF $name IS NOT NULL THEN $name ELSE name END,
			abbreviation = IF $abbreviation IS NOT NULL THEN $abbreviation ELSE abbreviation END,
			description = IF $description IS NOT NULL THEN $description ELSE description END,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":           id,
		"name":         ptrToNone(name),
		"abbreviation": ptrToNone(abbreviation),
		"description":  ptrToNone(description),
	}
	return r.db.Execute(ctx, query, vars)
}

// Delete removes an MDA together with its reforms and activities as one
// transaction.
func (r *MDARepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE activity WHERE reform_id IN (SELECT VALUE id FROM reform WHERE mda_id = type::record($id))`,
		map[string]interface{}{"id": id})
	batch.Add(`DELETE reform WHERE mda_id = type::record($id)`,
		map[string]interface{}{"id": id})
	batch.Add(`DELETE type::record($id)`,
		map[string]interface{}{"id": id})
	return batch.Execute(ctx, r.db)
}

// Count returns the number of MDAs
func (r *MDARepository) Count(ctx context.Context) (int, error) {
	result, err := r.db.QueryOne(ctx, `SELECT count() AS count FROM mda GROUP ALL`, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

func parseMDA(result interface{}) (*model.MDA, error) {
	rec, ok := asRecord(result)
	if !ok {
		return nil, database.ErrQuery
	}
	return &model.MDA{
		ID:           extractRecordID(rec["id"]),
		Name:         getString(rec, "name"),
		Abbreviation: getStringPtr(rec, "abbreviation"),
		Description:  getStringPtr(rec, "description"),
		CreatedOn:    getTimeOrZero(rec, "created_on"),
		UpdatedOn:    getTimeOrZero(rec, "updated_on"),
	}, nil
}

// ptrToNone converts a nil pointer to nil interface for SurrealDB NONE handling
func ptrToNone(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
