package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pebec/beepa-tracker/internal/beepa"
	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/model"
)

// MDAFullRepository defines the MDA repo interface needed by MDAService
type MDAFullRepository interface {
	GetByID(ctx context.Context, id string) (*model.MDA, error)
	GetByName(ctx context.Context, name string) (*model.MDA, error)
	List(ctx context.Context) ([]*model.MDA, error)
	Update(ctx context.Context, id string, name, abbreviation, description *string) error
	Delete(ctx context.Context, id string) error
}

// MDAService manages agencies. Creating one instantiates the full BEEPA
// framework: the 7 reforms and all their template activities, in a single
// transaction with the agency record.
type MDAService struct {
	db        database.Database
	mdaRepo   MDAFullRepository
	auditRepo AuditAppender
	logger    *slog.Logger
}

// NewMDAService creates a new MDA service
func NewMDAService(db database.Database, mdaRepo MDAFullRepository, auditRepo AuditAppender, logger *slog.Logger) *MDAService {
	return &MDAService{
		db:        db,
		mdaRepo:   mdaRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// CreateMDARequest carries the fields for a new agency.
type CreateMDARequest struct {
	Name         string  `json:"name"`
	Abbreviation *string `json:"abbreviation,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// ListMDAs returns all agencies ordered by name.
func (s *MDAService) ListMDAs(ctx context.Context) ([]*model.MDA, error) {
	return s.mdaRepo.List(ctx)
}

// GetMDA returns one agency.
func (s *MDAService) GetMDA(ctx context.Context, id string) (*model.MDA, error) {
	mda, err := s.mdaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup mda: %w", err)
	}
	if mda == nil {
		return nil, ErrMDANotFound
	}
	return mda, nil
}

// CreateMDA creates an agency together with its 7 framework reforms and all
// template activities as one transaction. Activities start at completion 0.
func (s *MDAService) CreateMDA(ctx context.Context, actor model.Capability, req CreateMDARequest) (*model.MDA, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMDANameRequired
	}

	existing, err := s.mdaRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup mda by name: %w", err)
	}
	if existing != nil {
		return nil, ErrMDANameExists
	}

	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $agency = (CREATE mda CONTENT {
			name: $name,
			abbreviation: IF $abbreviation IS NOT NULL THEN $abbreviation ELSE NONE END,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		})[0].id
	`, map[string]interface{}{
		"name":         name,
		"abbreviation": optionalString(req.Abbreviation),
		"description":  optionalString(req.Description),
	})

	for _, reform := range beepa.Reforms {
		reformVar := fmt.Sprintf("$framework_reform_%d", reform.RefNumber)
		batch.Add(`
			LET `+reformVar+` = (CREATE reform CONTENT {
				mda_id: $agency,
				ref_number: $ref_number,
				name: $name,
				created_on: time::now(),
				updated_on: time::now()
			})[0].id
		`, map[string]interface{}{
			"ref_number": reform.RefNumber,
			"name":       reform.Name,
		})

		for _, activity := range reform.Activities {
			batch.Add(`
				CREATE activity CONTENT {
					reform_id: `+reformVar+`,
					ref_number: $ref_number,
					name: $name,
					weight: $weight,
					completion_level: 0,
					status: 'not_started',
					created_on: time::now(),
					updated_on: time::now()
				}
			`, map[string]interface{}{
				"ref_number": activity.Ref,
				"name":       activity.Name,
				"weight":     activity.Weight,
			})
		}
	}

	if err := batch.Execute(ctx, s.db); err != nil {
		if isDuplicate(err) {
			return nil, ErrMDANameExists
		}
		return nil, fmt.Errorf("create mda with framework: %w", err)
	}

	created, err := s.mdaRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch created mda: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("create mda: record missing after commit")
	}

	s.appendAudit(ctx, actor, created.ID, model.AuditActionCreate, nil, map[string]interface{}{"name": created.Name})
	s.logger.Info("mda created with framework",
		"mda_id", created.ID,
		"name", created.Name,
		"reforms", len(beepa.Reforms),
		"activities", beepa.TotalActivities())
	return created, nil
}

// UpdateMDARequest carries optional field patches for an agency.
type UpdateMDARequest struct {
	Name         *string `json:"name,omitempty"`
	Abbreviation *string `json:"abbreviation,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// UpdateMDA patches an agency's descriptive fields.
func (s *MDAService) UpdateMDA(ctx context.Context, actor model.Capability, id string, req UpdateMDARequest) (*model.MDA, error) {
	mda, err := s.mdaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup mda: %w", err)
	}
	if mda == nil {
		return nil, ErrMDANotFound
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrMDANameRequired
	}

	if err := s.mdaRepo.Update(ctx, id, req.Name, req.Abbreviation, req.Description); err != nil {
		if isDuplicate(err) {
			return nil, ErrMDANameExists
		}
		return nil, fmt.Errorf("update mda: %w", err)
	}

	previous := map[string]interface{}{"name": mda.Name}
	updated, err := s.mdaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch updated mda: %w", err)
	}
	s.appendAudit(ctx, actor, id, model.AuditActionUpdate, previous, map[string]interface{}{"name": updated.Name})
	return updated, nil
}

// DeleteMDA removes an agency and cascades to its reforms and activities.
func (s *MDAService) DeleteMDA(ctx context.Context, actor model.Capability, id string) error {
	mda, err := s.mdaRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup mda: %w", err)
	}
	if mda == nil {
		return ErrMDANotFound
	}

	if err := s.mdaRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete mda: %w", err)
	}

	s.appendAudit(ctx, actor, id, model.AuditActionDelete, map[string]interface{}{"name": mda.Name}, nil)
	s.logger.Info("mda deleted", "mda_id", id, "name", mda.Name)
	return nil
}

func (s *MDAService) appendAudit(ctx context.Context, actor model.Capability, entityID string, action model.AuditAction, previous, next map[string]interface{}) {
	entry := &model.AuditLog{
		EntityType:    model.AuditEntityMDA,
		EntityID:      entityID,
		Action:        action,
		PreviousValue: previous,
		NewValue:      next,
		UserID:        &actor.UserID,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit entry", "mda_id", entityID, "error", err)
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, database.ErrDuplicate)
}

// optionalString flattens an optional field to nil or its trimmed value so
// the store sees NONE instead of an empty string.
func optionalString(s *string) interface{} {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
