package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pebec/beepa-tracker/internal/model"
)

// ActivityWriteRepository defines the activity repo interface needed by ActivityService
type ActivityWriteRepository interface {
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	UpdateCompletion(ctx context.Context, id string, level float64, status model.ActivityStatus, updatedBy string) error
}

// ActivityReformRepository defines the reform repo interface needed by ActivityService
type ActivityReformRepository interface {
	GetByID(ctx context.Context, id string) (*model.Reform, error)
}

// AuditAppender defines the audit repo interface needed by ActivityService
type AuditAppender interface {
	Append(ctx context.Context, entry *model.AuditLog) error
}

// ActivityService handles activity completion updates with permission scope
// enforcement and audit logging.
type ActivityService struct {
	activityRepo ActivityWriteRepository
	reformRepo   ActivityReformRepository
	auditRepo    AuditAppender
	logger       *slog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityRepo ActivityWriteRepository,
	reformRepo ActivityReformRepository,
	auditRepo AuditAppender,
	logger *slog.Logger,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		reformRepo:   reformRepo,
		auditRepo:    auditRepo,
		logger:       logger,
	}
}

// UpdateCompletionRequest carries one activity completion update.
type UpdateCompletionRequest struct {
	ActivityID      string                `json:"activity_id"`
	CompletionLevel float64               `json:"completion_level"`
	Status          *model.ActivityStatus `json:"status,omitempty"`
}

// UpdateCompletion updates one activity's completion level. The level must be
// in [0,1] before anything is written; editors restricted to specific MDAs
// may only touch activities under them. The quick-action status defaults to
// what the level implies when the caller does not send one.
func (s *ActivityService) UpdateCompletion(ctx context.Context, actor model.Capability, req UpdateCompletionRequest) (*model.Activity, error) {
	if !actor.CanEdit() {
		return nil, ErrInsufficientRole
	}
	if req.CompletionLevel < 0 || req.CompletionLevel > 1 {
		return nil, ErrInvalidCompletionLevel
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, ErrInvalidActivityStatus
	}

	activity, err := s.activityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("lookup activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	reform, err := s.reformRepo.GetByID(ctx, activity.ReformID)
	if err != nil {
		return nil, fmt.Errorf("lookup reform: %w", err)
	}
	if reform == nil {
		return nil, ErrReformNotFound
	}
	if !actor.CanEditMDA(reform.MDAID) {
		return nil, ErrEditScopeViolation
	}

	status := statusForLevel(req.CompletionLevel)
	if req.Status != nil {
		status = *req.Status
	}

	if err := s.activityRepo.UpdateCompletion(ctx, activity.ID, req.CompletionLevel, status, actor.UserID); err != nil {
		return nil, fmt.Errorf("update completion: %w", err)
	}

	s.appendAudit(ctx, actor, activity, req.CompletionLevel, status)

	activity.CompletionLevel = req.CompletionLevel
	activity.Status = status
	activity.LastUpdatedBy = &actor.UserID
	return activity, nil
}

// BatchResult reports the outcome of a batch completion update.
type BatchResult struct {
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}

// BatchUpdateCompletion applies several completion updates in one call.
// Items referencing missing activities are skipped and reported, not fatal;
// a validation or permission failure on any item still rejects the whole
// request up front.
func (s *ActivityService) BatchUpdateCompletion(ctx context.Context, actor model.Capability, reqs []UpdateCompletionRequest) (*BatchResult, error) {
	if !actor.CanEdit() {
		return nil, ErrInsufficientRole
	}
	for _, req := range reqs {
		if req.CompletionLevel < 0 || req.CompletionLevel > 1 {
			return nil, ErrInvalidCompletionLevel
		}
		if req.Status != nil && !req.Status.IsValid() {
			return nil, ErrInvalidActivityStatus
		}
	}

	result := &BatchResult{}
	for _, req := range reqs {
		activity, err := s.activityRepo.GetByID(ctx, req.ActivityID)
		if err != nil {
			return nil, fmt.Errorf("lookup activity: %w", err)
		}
		if activity == nil {
			result.Skipped = append(result.Skipped, req.ActivityID)
			continue
		}

		reform, err := s.reformRepo.GetByID(ctx, activity.ReformID)
		if err != nil {
			return nil, fmt.Errorf("lookup reform: %w", err)
		}
		if reform == nil {
			result.Skipped = append(result.Skipped, req.ActivityID)
			continue
		}
		if !actor.CanEditMDA(reform.MDAID) {
			return nil, ErrEditScopeViolation
		}

		status := statusForLevel(req.CompletionLevel)
		if req.Status != nil {
			status = *req.Status
		}
		if err := s.activityRepo.UpdateCompletion(ctx, activity.ID, req.CompletionLevel, status, actor.UserID); err != nil {
			return nil, fmt.Errorf("update completion: %w", err)
		}
		s.appendAudit(ctx, actor, activity, req.CompletionLevel, status)
		result.Updated = append(result.Updated, activity.ID)
	}

	s.logger.Info("batch completion update",
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"user_id", actor.UserID)
	return result, nil
}

// appendAudit records the before/after of a completion change. Audit failures
// are logged, not surfaced: the completion write already happened.
func (s *ActivityService) appendAudit(ctx context.Context, actor model.Capability, before *model.Activity, level float64, status model.ActivityStatus) {
	entry := &model.AuditLog{
		EntityType: model.AuditEntityActivity,
		EntityID:   before.ID,
		Action:     model.AuditActionUpdate,
		PreviousValue: map[string]interface{}{
			"completion_level": before.CompletionLevel,
			"status":           string(before.Status),
		},
		NewValue: map[string]interface{}{
			"completion_level": level,
			"status":           string(status),
		},
		UserID: &actor.UserID,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit entry", "activity_id", before.ID, "error", err)
	}
}

// statusForLevel derives the quick-action status implied by a completion
// level: 0 not started, 1 complete, anything between in progress.
func statusForLevel(level float64) model.ActivityStatus {
	switch {
	case level >= 1:
		return model.ActivityComplete
	case level > 0:
		return model.ActivityInProgress
	default:
		return model.ActivityNotStarted
	}
}
