package repository

import (
	"context"
	"errors"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// ReformRepository handles reform data access
type ReformRepository struct {
	db database.Database
}

// NewReformRepository creates a new reform repository
func NewReformRepository(db database.Database) *ReformRepository {
	return &ReformRepository{db: db}
}

// GetByID retrieves a reform by ID
func (r *ReformRepository) GetByID(ctx context.Context, id string) (*model.Reform, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseReform(result)
}

// ListByMDA returns an MDA's reforms ordered by reference number
func (r *ReformRepository) ListByMDA(ctx context.Context, mdaID string) ([]*model.Reform, error) {
	query := `SELECT * FROM reform WHERE mda_id = type::record($mda_id) ORDER BY ref_number ASC`
	vars := map[string]interface{}{"mda_id": mdaID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	reforms := make([]*model.Reform, 0, len(records))
	for _, rec := range records {
		reform, err := parseReform(rec)
		if err != nil {
			return nil, err
		}
		reforms = append(reforms, reform)
	}
	return reforms, nil
}

// ListAll returns every reform in the system
func (r *ReformRepository) ListAll(ctx context.Context) ([]*model.Reform, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM reform ORDER BY ref_number ASC`, nil)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	reforms := make([]*model.Reform, 0, len(records))
	for _, rec := range records {
		reform, err := parseReform(rec)
		if err != nil {
			return nil, err
		}
		reforms = append(reforms, reform)
	}
	return reforms, nil
}

// Count returns the number of reforms
func (r *ReformRepository) Count(ctx context.Context) (int, error) {
	result, err := r.db.QueryOne(ctx, `SELECT count() AS count FROM reform GROUP ALL`, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

func parseReform(result interface{}) (*model.Reform, error) {
	rec, ok := asRecord(result)
	if !ok {
		return nil, database.ErrQuery
	}
	return &model.Reform{
		ID:          extractRecordID(rec["id"]),
		MDAID:       extractRecordID(rec["mda_id"]),
		RefNumber:   getInt(rec, "ref_number"),
		Name:        getString(rec, "name"),
		Description: getStringPtr(rec, "description"),
		CreatedOn:   getTimeOrZero(rec, "created_on"),
		UpdatedOn:   getTimeOrZero(rec, "updated_on"),
	}, nil
}
