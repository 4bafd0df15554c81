package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A uniqueness index on email is the backstop
// against two concurrent sign-ins materializing the same invitee twice.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			subject_id: IF $subject_id IS NOT NULL THEN $subject_id ELSE NONE END,
			email: $email,
			name: IF $name IS NOT NULL THEN $name ELSE NONE END,
			role: $role,
			status: $status,
			assigned_mdas: $assigned_mdas,
			invited_on: IF $invited IS true THEN time::now() ELSE NONE END,
			login_on: IF $logged_in IS true THEN time::now() ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"subject_id":    ptrToNone(user.SubjectID),
		"email":         user.Email,
		"name":          ptrToNone(user.Name),
		"role":          string(user.Role),
		"status":        string(user.Status),
		"assigned_mdas": user.AssignedMDAs,
		"invited":       user.InvitedOn != nil,
		"logged_in":     user.LoginOn != nil,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	created, ok := asRecord(result)
	if !ok {
		return database.ErrQuery
	}
	user.ID = extractRecordID(created["id"])
	user.CreatedOn = getTimeOrZero(created, "created_on")
	user.UpdatedOn = getTimeOrZero(created, "updated_on")
	return nil
}

// CreateBootstrapAdmin creates the very first admin. The zero-users
// precondition and the insert run inside one store transaction, so of two
// racing first sign-ins exactly one can succeed; the loser surfaces
// ErrDuplicate. This atomicity is the store's guarantee, not re-derived here.
func (r *UserRepository) CreateBootstrapAdmin(ctx context.Context, user *model.User) error {
	batch := database.NewAtomicBatch()
	batch.AddRaw(`IF (SELECT count() AS count FROM user GROUP ALL)[0].count > 0 { THROW "bootstrap unavailable: users already exist" }`)
	batch.Add(`
		CREATE user CONTENT {
			subject_id: $subject_id,
			email: $email,
			name: IF $name IS NOT NULL THEN $name ELSE NONE END,
			role: 'admin',
			status: 'active',
			assigned_mdas: [],
			login_on: time::now(),
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"subject_id": ptrToNone(user.SubjectID),
		"email":      user.Email,
		"name":       ptrToNone(user.Name),
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return fmt.Errorf("%w: %v", database.ErrDuplicate, err)
	}

	created, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if created == nil {
		return database.ErrQuery
	}
	*user = *created
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(result)
}

// GetBySubject retrieves a user by the identity provider's subject ID
func (r *UserRepository) GetBySubject(ctx context.Context, subjectID string) (*model.User, error) {
	query := `SELECT * FROM user WHERE subject_id = $subject_id LIMIT 1`
	vars := map[string]interface{}{"subject_id": subjectID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(result)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(result)
}

// List returns all users ordered by creation time
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM user ORDER BY created_on ASC`, nil)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	users := make([]*model.User, 0, len(records))
	for _, rec := range records {
		user, err := parseUser(rec)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Count returns the number of users in the system
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	result, err := r.db.QueryOne(ctx, `SELECT count() AS count FROM user GROUP ALL`, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// LinkIdentity attaches the provider subject to a pending invitee, flipping
// it active and stamping the first login. The WHERE clause makes the update
// idempotent: once linked, the record no longer matches and repeated calls
// are no-ops.
func (r *UserRepository) LinkIdentity(ctx context.Context, userID, subjectID string) error {
	query := `
		UPDATE type::record($id) SET
			subject_id = $subject_id,
			status = 'active',
			login_on = time::now(),
			updated_on = time::now()
		WHERE status = 'pending' AND subject_id IS NONE
	`
	vars := map[string]interface{}{
		"id":         userID,
		"subject_id": subjectID,
	}
	return r.db.Execute(ctx, query, vars)
}

// UpdateLastLogin stamps the last-login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	query := `UPDATE type::record($id) SET login_on = time::now()`
	vars := map[string]interface{}{"id": userID}
	return r.db.Execute(ctx, query, vars)
}

// SetRole updates a user's role
func (r *UserRepository) SetRole(ctx context.Context, userID string, role model.UserRole) error {
	query := `UPDATE type::record($id) SET role = $role, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"role": string(role),
	}
	return r.db.Execute(ctx, query, vars)
}

// SetStatus updates a user's lifecycle status
func (r *UserRepository) SetStatus(ctx context.Context, userID string, status model.UserStatus) error {
	query := `UPDATE type::record($id) SET status = $status, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":     userID,
		"status": string(status),
	}
	return r.db.Execute(ctx, query, vars)
}

// SetAssignedMDAs replaces a user's editor scope
func (r *UserRepository) SetAssignedMDAs(ctx context.Context, userID string, mdaIDs []string) error {
	query := `UPDATE type::record($id) SET assigned_mdas = $mdas, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"mdas": mdaIDs,
	}
	return r.db.Execute(ctx, query, vars)
}

// Delete removes a user record
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}
	return r.db.Execute(ctx, query, vars)
}

func parseUser(result interface{}) (*model.User, error) {
	rec, ok := asRecord(result)
	if !ok {
		return nil, database.ErrQuery
	}
	return &model.User{
		ID:           extractRecordID(rec["id"]),
		SubjectID:    getStringPtr(rec, "subject_id"),
		Email:        getString(rec, "email"),
		Name:         getStringPtr(rec, "name"),
		Role:         model.UserRole(getString(rec, "role")),
		Status:       model.UserStatus(getString(rec, "status")),
		AssignedMDAs: getStringSlice(rec, "assigned_mdas"),
		InvitedOn:    getTime(rec, "invited_on"),
		LoginOn:      getTime(rec, "login_on"),
		CreatedOn:    getTimeOrZero(rec, "created_on"),
		UpdatedOn:    getTimeOrZero(rec, "updated_on"),
	}, nil
}
