package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pebec/beepa-tracker/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockActivityRepo struct {
	getByIDFunc          func(ctx context.Context, id string) (*model.Activity, error)
	updateCompletionFunc func(ctx context.Context, id string, level float64, status model.ActivityStatus, updatedBy string) error
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockActivityRepo) UpdateCompletion(ctx context.Context, id string, level float64, status model.ActivityStatus, updatedBy string) error {
	if m.updateCompletionFunc != nil {
		return m.updateCompletionFunc(ctx, id, level, status, updatedBy)
	}
	return nil
}

type mockReformRepo struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Reform, error)
}

func (m *mockReformRepo) GetByID(ctx context.Context, id string) (*model.Reform, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockAuditRepo struct {
	entries []*model.AuditLog
	err     error
}

func (m *mockAuditRepo) Append(ctx context.Context, entry *model.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func newTestActivityService(activityRepo *mockActivityRepo, reformRepo *mockReformRepo, auditRepo *mockAuditRepo) *ActivityService {
	if activityRepo == nil {
		activityRepo = &mockActivityRepo{}
	}
	if reformRepo == nil {
		reformRepo = &mockReformRepo{}
	}
	if auditRepo == nil {
		auditRepo = &mockAuditRepo{}
	}
	return NewActivityService(activityRepo, reformRepo, auditRepo, testLogger())
}

func editorCap(assigned ...string) model.Capability {
	return model.Capability{
		UserID:       "user:editor",
		Role:         model.UserRoleEditor,
		Status:       model.UserStatusActive,
		AssignedMDAs: assigned,
	}
}

func viewerCap() model.Capability {
	return model.Capability{
		UserID: "user:viewer",
		Role:   model.UserRoleViewer,
		Status: model.UserStatusActive,
	}
}

func stubActivity(id, reformID string) *model.Activity {
	return &model.Activity{
		ID:              id,
		ReformID:        reformID,
		RefNumber:       "1.1",
		Name:            "Compile comprehensive list of MDA services with SLAs",
		Weight:          0.10,
		CompletionLevel: 0.25,
		Status:          model.ActivityInProgress,
	}
}

// ============================================================================
// UpdateCompletion Tests
// ============================================================================

func TestUpdateCompletion_ViewerRejected(t *testing.T) {
	t.Parallel()
	svc := newTestActivityService(nil, nil, nil)

	_, err := svc.UpdateCompletion(context.Background(), viewerCap(), UpdateCompletionRequest{
		ActivityID:      "activity:1",
		CompletionLevel: 0.5,
	})
	if !errors.Is(err, ErrInsufficientRole) {
		t.Errorf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestUpdateCompletion_LevelOutOfRange(t *testing.T) {
	t.Parallel()
	called := false
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			called = true
			return stubActivity(id, "reform:1"), nil
		},
	}
	svc := newTestActivityService(activityRepo, nil, nil)

	for _, level := range []float64{-0.1, 1.1, 2} {
		_, err := svc.UpdateCompletion(context.Background(), editorCap(), UpdateCompletionRequest{
			ActivityID:      "activity:1",
			CompletionLevel: level,
		})
		if !errors.Is(err, ErrInvalidCompletionLevel) {
			t.Errorf("level %v: expected ErrInvalidCompletionLevel, got %v", level, err)
		}
	}
	if called {
		t.Error("validation must happen before any lookup")
	}
}

func TestUpdateCompletion_MissingActivity(t *testing.T) {
	t.Parallel()
	svc := newTestActivityService(&mockActivityRepo{}, nil, nil)

	_, err := svc.UpdateCompletion(context.Background(), editorCap(), UpdateCompletionRequest{
		ActivityID:      "activity:missing",
		CompletionLevel: 0.5,
	})
	if !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestUpdateCompletion_ScopedEditor_OutsideAssignment(t *testing.T) {
	t.Parallel()
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return stubActivity(id, "reform:1"), nil
		},
	}
	reformRepo := &mockReformRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Reform, error) {
			return &model.Reform{ID: id, MDAID: "mda:other"}, nil
		},
	}
	svc := newTestActivityService(activityRepo, reformRepo, nil)

	_, err := svc.UpdateCompletion(context.Background(), editorCap("mda:mine"), UpdateCompletionRequest{
		ActivityID:      "activity:1",
		CompletionLevel: 0.5,
	})
	if !errors.Is(err, ErrEditScopeViolation) {
		t.Errorf("expected ErrEditScopeViolation, got %v", err)
	}
}

func TestUpdateCompletion_WritesAndAudits(t *testing.T) {
	t.Parallel()
	var gotLevel float64
	var gotStatus model.ActivityStatus
	var gotBy string
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return stubActivity(id, "reform:1"), nil
		},
		updateCompletionFunc: func(ctx context.Context, id string, level float64, status model.ActivityStatus, updatedBy string) error {
			gotLevel = level
			gotStatus = status
			gotBy = updatedBy
			return nil
		},
	}
	reformRepo := &mockReformRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Reform, error) {
			return &model.Reform{ID: id, MDAID: "mda:mine"}, nil
		},
	}
	auditRepo := &mockAuditRepo{}
	svc := newTestActivityService(activityRepo, reformRepo, auditRepo)

	updated, err := svc.UpdateCompletion(context.Background(), editorCap("mda:mine"), UpdateCompletionRequest{
		ActivityID:      "activity:1",
		CompletionLevel: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLevel != 1 || gotStatus != model.ActivityComplete || gotBy != "user:editor" {
		t.Errorf("unexpected write: level=%v status=%s by=%s", gotLevel, gotStatus, gotBy)
	}
	if updated.Status != model.ActivityComplete {
		t.Errorf("expected derived complete status, got %s", updated.Status)
	}

	if len(auditRepo.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(auditRepo.entries))
	}
	entry := auditRepo.entries[0]
	if entry.EntityType != model.AuditEntityActivity || entry.Action != model.AuditActionUpdate {
		t.Errorf("unexpected audit entry: %s %s", entry.EntityType, entry.Action)
	}
	if entry.PreviousValue["completion_level"] != 0.25 {
		t.Errorf("expected previous level 0.25 in audit, got %v", entry.PreviousValue["completion_level"])
	}
	if entry.NewValue["completion_level"] != 1.0 {
		t.Errorf("expected new level 1 in audit, got %v", entry.NewValue["completion_level"])
	}
}

func TestUpdateCompletion_AuditFailureDoesNotFailUpdate(t *testing.T) {
	t.Parallel()
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return stubActivity(id, "reform:1"), nil
		},
	}
	reformRepo := &mockReformRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Reform, error) {
			return &model.Reform{ID: id, MDAID: "mda:1"}, nil
		},
	}
	svc := newTestActivityService(activityRepo, reformRepo, &mockAuditRepo{err: errors.New("audit store down")})

	if _, err := svc.UpdateCompletion(context.Background(), editorCap(), UpdateCompletionRequest{
		ActivityID:      "activity:1",
		CompletionLevel: 0.5,
	}); err != nil {
		t.Errorf("audit failure must not fail the update, got %v", err)
	}
}

func TestStatusForLevel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		level float64
		want  model.ActivityStatus
	}{
		{0, model.ActivityNotStarted},
		{0.01, model.ActivityInProgress},
		{0.99, model.ActivityInProgress},
		{1, model.ActivityComplete},
	}
	for _, tc := range cases {
		if got := statusForLevel(tc.level); got != tc.want {
			t.Errorf("statusForLevel(%v) = %s, want %s", tc.level, got, tc.want)
		}
	}
}

// ============================================================================
// BatchUpdateCompletion Tests
// ============================================================================

func TestBatchUpdate_SkipsMissingActivities(t *testing.T) {
	t.Parallel()
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			if id == "activity:missing" {
				return nil, nil
			}
			return stubActivity(id, "reform:1"), nil
		},
	}
	reformRepo := &mockReformRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Reform, error) {
			return &model.Reform{ID: id, MDAID: "mda:1"}, nil
		},
	}
	svc := newTestActivityService(activityRepo, reformRepo, nil)

	result, err := svc.BatchUpdateCompletion(context.Background(), editorCap(), []UpdateCompletionRequest{
		{ActivityID: "activity:1", CompletionLevel: 0.5},
		{ActivityID: "activity:missing", CompletionLevel: 0.5},
		{ActivityID: "activity:2", CompletionLevel: 0.75},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Updated) != 2 {
		t.Errorf("expected 2 updates, got %d", len(result.Updated))
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "activity:missing" {
		t.Errorf("expected missing activity to be skipped, got %v", result.Skipped)
	}
}

func TestBatchUpdate_InvalidLevelRejectsWholeBatch(t *testing.T) {
	t.Parallel()
	written := 0
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return stubActivity(id, "reform:1"), nil
		},
		updateCompletionFunc: func(ctx context.Context, id string, level float64, status model.ActivityStatus, updatedBy string) error {
			written++
			return nil
		},
	}
	svc := newTestActivityService(activityRepo, nil, nil)

	_, err := svc.BatchUpdateCompletion(context.Background(), editorCap(), []UpdateCompletionRequest{
		{ActivityID: "activity:1", CompletionLevel: 0.5},
		{ActivityID: "activity:2", CompletionLevel: 1.5},
	})
	if !errors.Is(err, ErrInvalidCompletionLevel) {
		t.Errorf("expected ErrInvalidCompletionLevel, got %v", err)
	}
	if written != 0 {
		t.Errorf("expected no writes when validation fails up front, got %d", written)
	}
}
