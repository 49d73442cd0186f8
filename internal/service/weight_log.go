package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
)

// WeightLogRepository defines the interface for weight log storage
type WeightLogRepository interface {
	Create(ctx context.Context, log *model.WeightLog) error
	GetByID(ctx context.Context, id string) (*model.WeightLog, error)
	GetByUserAndDate(ctx context.Context, userID, logDate string) (*model.WeightLog, error)
	ListForUser(ctx context.Context, userID string, from, to string, limit, start int) ([]*model.WeightLog, error)
	Update(ctx context.Context, log *model.WeightLog) error
	Delete(ctx context.Context, id string) error
	GetProgressRows(ctx context.Context, challengeID, fromDate, toDate string) ([]*ProgressRow, error)
}

// WeightLogService handles weigh-in business logic
type WeightLogService struct {
	repo WeightLogRepository
	now  func() time.Time
}

// WeightLogServiceConfig holds configuration for the weight log service
type WeightLogServiceConfig struct {
	WeightLogRepo WeightLogRepository
	Now           func() time.Time // Defaults to time.Now
}

// NewWeightLogService creates a new weight log service
func NewWeightLogService(cfg WeightLogServiceConfig) *WeightLogService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &WeightLogService{
		repo: cfg.WeightLogRepo,
		now:  cfg.Now,
	}
}

// Create records a weigh-in. One log per calendar day; dates never in the
// future.
func (s *WeightLogService) Create(ctx context.Context, userID string, req *model.CreateWeightLogRequest) (*model.WeightLog, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	logDate := req.GetLogDate(s.now())
	today := s.now().UTC().Format(model.LogDateFormat)
	if logDate > today {
		return nil, ErrLogDateInFuture
	}

	existing, err := s.repo.GetByUserAndDate(ctx, userID, logDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing weight log: %w", err)
	}
	if existing != nil {
		return nil, ErrLogExistsForDate
	}

	log := &model.WeightLog{
		UserID:   userID,
		WeightKg: req.WeightKg,
		Note:     req.Note,
		LogDate:  logDate,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrLogExistsForDate
		}
		return nil, fmt.Errorf("failed to create weight log: %w", err)
	}
	return log, nil
}

// List returns the caller's logs newest first with optional date bounds
func (s *WeightLogService) List(ctx context.Context, userID string, from, to string, limit, offset int) ([]*model.WeightLog, error) {
	var errs []model.FieldError
	if from != "" {
		if _, err := time.Parse(model.LogDateFormat, from); err != nil {
			errs = append(errs, model.FieldError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		}
	}
	if to != "" {
		if _, err := time.Parse(model.LogDateFormat, to); err != nil {
			errs = append(errs, model.FieldError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	if limit <= 0 || limit > model.MaxWeightLogLimit {
		limit = model.DefaultWeightLogLimit
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := s.repo.ListForUser(ctx, userID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight logs: %w", err)
	}
	return logs, nil
}

// GetByID retrieves a single log. Owner only; others see not found.
func (s *WeightLogService) GetByID(ctx context.Context, id, userID string) (*model.WeightLog, error) {
	log, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return log, nil
}

// Update amends the weight or note of an existing log. Owner only.
func (s *WeightLogService) Update(ctx context.Context, id, userID string, req *model.UpdateWeightLogRequest) (*model.WeightLog, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	log, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.WeightKg != nil {
		log.WeightKg = *req.WeightKg
	}
	if req.Note != nil {
		log.Note = req.Note
	}

	if err := s.repo.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update weight log: %w", err)
	}
	return log, nil
}

// Delete removes a log. Owner only.
func (s *WeightLogService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete weight log: %w", err)
	}
	return nil
}

// getOwned fetches a log and hides it from everyone but its owner
func (s *WeightLogService) getOwned(ctx context.Context, id, userID string) (*model.WeightLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get weight log: %w", err)
	}
	if log == nil || log.UserID != userID {
		return nil, ErrWeightLogNotFound
	}
	return log, nil
}
