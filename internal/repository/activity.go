package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// ActivityRepository handles activity data access
type ActivityRepository struct {
	db database.Database
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// GetByID retrieves an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseActivity(result)
}

// ListByReform returns a reform's activities ordered by their dotted
// reference number ("3.2" sorts on the minor part).
func (r *ActivityRepository) ListByReform(ctx context.Context, reformID string) ([]*model.Activity, error) {
	query := `SELECT * FROM activity WHERE reform_id = type::record($reform_id)`
	vars := map[string]interface{}{"reform_id": reformID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	activities := make([]*model.Activity, 0, len(records))
	for _, rec := range records {
		activity, err := parseActivity(rec)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return refMinor(activities[i].RefNumber) < refMinor(activities[j].RefNumber)
	})
	return activities, nil
}

// ListAll returns every activity in the system
func (r *ActivityRepository) ListAll(ctx context.Context) ([]*model.Activity, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM activity`, nil)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	activities := make([]*model.Activity, 0, len(records))
	for _, rec := range records {
		activity, err := parseActivity(rec)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

// UpdateCompletion patches the completion level, status, and last editor of
// an activity.
func (r *ActivityRepository) UpdateCompletion(ctx context.Context, id string, level float64, status model.ActivityStatus, updatedBy string) error {
	query := `
		UPDATE type::record($id) SET
			completion_level = $level,
			status = $status,
			last_updated_by = $updated_by,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":         id,
		"level":      level,
		"status":     string(status),
		"updated_by": updatedBy,
	}
	return r.db.Execute(ctx, query, vars)
}

// Count returns the number of activities
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	result, err := r.db.QueryOne(ctx, `SELECT count() AS count FROM activity GROUP ALL`, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

func parseActivity(result interface{}) (*model.Activity, error) {
	rec, ok := asRecord(result)
	if !ok {
		return nil, database.ErrQuery
	}
	return &model.Activity{
		ID:              extractRecordID(rec["id"]),
		ReformID:        extractRecordID(rec["reform_id"]),
		RefNumber:       getString(rec, "ref_number"),
		Name:            getString(rec, "name"),
		Description:     getStringPtr(rec, "description"),
		Weight:          getFloat(rec, "weight"),
		CompletionLevel: getFloat(rec, "completion_level"),
		Status:          model.ActivityStatus(getString(rec, "status")),
		LastUpdatedBy:   getStringPtr(rec, "last_updated_by"),
		CreatedOn:       getTimeOrZero(rec, "created_on"),
		UpdatedOn:       getTimeOrZero(rec, "updated_on"),
	}, nil
}

// refMinor parses the minor part of a dotted reference ("3.2" -> 2).
func refMinor(ref string) int {
	if _, minor, ok := strings.Cut(ref, "."); ok {
		if n, err := strconv.Atoi(minor); err == nil {
			return n
		}
	}
	return 0
}
