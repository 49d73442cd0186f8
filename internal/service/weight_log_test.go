package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockWeightLogRepo struct {
	createFunc           func(ctx context.Context, log *model.WeightLog) error
	getByIDFunc          func(ctx context.Context, id string) (*model.WeightLog, error)
	getByUserAndDateFunc func(ctx context.Context, userID, logDate string) (*model.WeightLog, error)
	listForUserFunc      func(ctx context.Context, userID string, from, to string, limit, start int) ([]*model.WeightLog, error)
	updateFunc           func(ctx context.Context, log *model.WeightLog) error
	deleteFunc           func(ctx context.Context, id string) error
	getProgressRowsFunc  func(ctx context.Context, challengeID, fromDate, toDate string) ([]*ProgressRow, error)
}

func (m *mockWeightLogRepo) Create(ctx context.Context, log *model.WeightLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, log)
	}
	return nil
}

func (m *mockWeightLogRepo) GetByID(ctx context.Context, id string) (*model.WeightLog, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockWeightLogRepo) GetByUserAndDate(ctx context.Context, userID, logDate string) (*model.WeightLog, error) {
	if m.getByUserAndDateFunc != nil {
		return m.getByUserAndDateFunc(ctx, userID, logDate)
	}
	return nil, nil
}

func (m *mockWeightLogRepo) ListForUser(ctx context.Context, userID string, from, to string, limit, start int) ([]*model.WeightLog, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID, from, to, limit, start)
	}
	return nil, nil
}

func (m *mockWeightLogRepo) Update(ctx context.Context, log *model.WeightLog) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, log)
	}
	return nil
}

func (m *mockWeightLogRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockWeightLogRepo) GetProgressRows(ctx context.Context, challengeID, fromDate, toDate string) ([]*ProgressRow, error) {
	if m.getProgressRowsFunc != nil {
		return m.getProgressRowsFunc(ctx, challengeID, fromDate, toDate)
	}
	return nil, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func newTestWeightLogService(repo *mockWeightLogRepo) *WeightLogService {
	if repo == nil {
		repo = &mockWeightLogRepo{}
	}
	return NewWeightLogService(WeightLogServiceConfig{
		WeightLogRepo: repo,
		Now:           func() time.Time { return testNow },
	})
}

// ============================================================================
// Create Tests
// ============================================================================

func TestWeightLogCreate_NoDate_DefaultsToToday(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var created *model.WeightLog
	repo := &mockWeightLogRepo{
		createFunc: func(ctx context.Context, log *model.WeightLog) error {
			log.ID = "weight_log:1"
			created = log
			return nil
		},
	}
	svc := newTestWeightLogService(repo)

	log, err := svc.Create(ctx, "user:alice", &model.CreateWeightLogRequest{WeightKg: 88.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.LogDate != "2025-06-15" {
		t.Errorf("expected log date 2025-06-15, got %s", log.LogDate)
	}
	if created.UserID != "user:alice" {
		t.Errorf("expected owner user:alice, got %s", created.UserID)
	}
}

func TestWeightLogCreate_FutureDate_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestWeightLogService(nil)

	future := "2025-06-16"
	_, err := svc.Create(ctx, "user:alice", &model.CreateWeightLogRequest{WeightKg: 88.2, LogDate: &future})
	if !errors.Is(err, ErrLogDateInFuture) {
		t.Errorf("expected ErrLogDateInFuture, got %v", err)
	}
}

func TestWeightLogCreate_DuplicateDay_ReturnsConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockWeightLogRepo{
		createFunc: func(ctx context.Context, log *model.WeightLog) error {
			return database.ErrDuplicate
		},
	}
	svc := newTestWeightLogService(repo)

	_, err := svc.Create(ctx, "user:alice", &model.CreateWeightLogRequest{WeightKg: 88.2})
	if !errors.Is(err, ErrLogExistsForDate) {
		t.Errorf("expected ErrLogExistsForDate, got %v", err)
	}
}

func TestWeightLogCreate_ExistingLogForDay_ReturnsConflictWithoutCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	createCalled := false
	repo := &mockWeightLogRepo{
		getByUserAndDateFunc: func(ctx context.Context, userID, logDate string) (*model.WeightLog, error) {
			return &model.WeightLog{ID: "weight_log:1", UserID: userID, LogDate: logDate}, nil
		},
		createFunc: func(ctx context.Context, log *model.WeightLog) error {
			createCalled = true
			return nil
		},
	}
	svc := newTestWeightLogService(repo)

	_, err := svc.Create(ctx, "user:alice", &model.CreateWeightLogRequest{WeightKg: 88.2})
	if !errors.Is(err, ErrLogExistsForDate) {
		t.Errorf("expected ErrLogExistsForDate, got %v", err)
	}
	if createCalled {
		t.Error("expected create to be skipped when a log already exists for the day")
	}
}

func TestWeightLogCreate_WeightOutOfRange_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestWeightLogService(nil)

	_, err := svc.Create(ctx, "user:alice", &model.CreateWeightLogRequest{WeightKg: 10})
	var problem *model.ProblemDetails
	if !errors.As(err, &problem) {
		t.Fatalf("expected problem details, got %v", err)
	}
	if problem.Code != model.ErrCodeValidation {
		t.Errorf("expected validation code, got %d", problem.Code)
	}
}

// ============================================================================
// List Tests
// ============================================================================

func TestWeightLogList_ClampsLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotLimit int
	repo := &mockWeightLogRepo{
		listForUserFunc: func(ctx context.Context, userID string, from, to string, limit, start int) ([]*model.WeightLog, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newTestWeightLogService(repo)

	if _, err := svc.List(ctx, "user:alice", "", "", 500, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != model.DefaultWeightLogLimit {
		t.Errorf("expected limit clamped to %d, got %d", model.DefaultWeightLogLimit, gotLimit)
	}
}

func TestWeightLogList_BadDateFilter_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestWeightLogService(nil)

	_, err := svc.List(ctx, "user:alice", "June 1", "", 10, 0)
	var problem *model.ProblemDetails
	if !errors.As(err, &problem) {
		t.Fatalf("expected problem details, got %v", err)
	}
}

// ============================================================================
// Ownership Tests
// ============================================================================

func TestWeightLogGetByID_NotOwner_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockWeightLogRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.WeightLog, error) {
			return &model.WeightLog{ID: id, UserID: "user:alice"}, nil
		},
	}
	svc := newTestWeightLogService(repo)

	_, err := svc.GetByID(ctx, "weight_log:1", "user:bob")
	if !errors.Is(err, ErrWeightLogNotFound) {
		t.Errorf("expected ErrWeightLogNotFound, got %v", err)
	}
}

func TestWeightLogUpdate_Owner_AppliesChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var updated *model.WeightLog
	repo := &mockWeightLogRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.WeightLog, error) {
			return &model.WeightLog{ID: id, UserID: "user:alice", WeightKg: 90}, nil
		},
		updateFunc: func(ctx context.Context, log *model.WeightLog) error {
			updated = log
			return nil
		},
	}
	svc := newTestWeightLogService(repo)

	weight := 89.4
	log, err := svc.Update(ctx, "weight_log:1", "user:alice", &model.UpdateWeightLogRequest{WeightKg: &weight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.WeightKg != 89.4 {
		t.Errorf("expected weight 89.4, got %v", log.WeightKg)
	}
	if updated == nil {
		t.Error("expected Update to be called")
	}
}

func TestWeightLogDelete_NotOwner_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockWeightLogRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.WeightLog, error) {
			return &model.WeightLog{ID: id, UserID: "user:alice"}, nil
		},
	}
	svc := newTestWeightLogService(repo)

	err := svc.Delete(ctx, "weight_log:1", "user:bob")
	if !errors.Is(err, ErrWeightLogNotFound) {
		t.Errorf("expected ErrWeightLogNotFound, got %v", err)
	}
}
