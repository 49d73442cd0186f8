package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
)

// JoinRequestRepository handles join request and invitation data access
type JoinRequestRepository struct {
	db database.Database
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db database.Database) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// Create stores a new join request or invitation
func (r *JoinRequestRepository) Create(ctx context.Context, req *model.JoinRequest) error {
	query := `
		CREATE join_request CONTENT {
			challenge: type::record($challenge),
			user: type::record($user),
			message: IF $message IS NOT NULL THEN $message ELSE NONE END,
			status: $status,
			starting_weight_kg: IF $starting_weight_kg IS NOT NULL THEN $starting_weight_kg ELSE NONE END,
			goal_weight_kg: IF $goal_weight_kg IS NOT NULL THEN $goal_weight_kg ELSE NONE END,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"challenge":          req.ChallengeID,
		"user":               req.UserID,
		"message":            ptrToNone(req.Message),
		"status":             req.Status,
		"starting_weight_kg": floatPtrToNone(req.StartingWeightKg),
		"goal_weight_kg":     floatPtrToNone(req.GoalWeightKg),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: open request already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	req.ID = created.ID
	req.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves a join request by ID
func (r *JoinRequestRepository) GetByID(ctx context.Context, id string) (*model.JoinRequest, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	req, err := parseJoinRequestResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// GetOpenForUser finds an open request or invite for a user on a challenge
func (r *JoinRequestRepository) GetOpenForUser(ctx context.Context, challengeID, userID string) (*model.JoinRequest, error) {
	query := `
		SELECT * FROM join_request
		WHERE challenge = type::record($challenge)
		AND user = type::record($user)
		AND status IN ['pending', 'invited']
		LIMIT 1
	`
	vars := map[string]interface{}{
		"challenge": challengeID,
		"user":      userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	req, err := parseJoinRequestResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// ListForChallenge lists requests on a challenge, optionally filtered by status
func (r *JoinRequestRepository) ListForChallenge(ctx context.Context, challengeID string, status model.JoinRequestStatus) ([]*model.JoinRequest, error) {
	query := `
		SELECT * FROM join_request
		WHERE challenge = type::record($challenge)
		AND (status = $status OR $status = '')
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{
		"challenge": challengeID,
		"status":    status,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseJoinRequestsFromResults(results)
}

// ListForUser lists a user's own requests and invitations
func (r *JoinRequestRepository) ListForUser(ctx context.Context, userID string) ([]*model.JoinRequest, error) {
	query := `
		SELECT * FROM join_request
		WHERE user = type::record($user)
		ORDER BY created_on DESC
	`
	vars := map[string]interface{}{"user": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseJoinRequestsFromResults(results)
}

// SetStatus records a decision on a join request
func (r *JoinRequestRepository) SetStatus(ctx context.Context, id string, status model.JoinRequestStatus, decidedBy string) error {
	query := `
		UPDATE type::record($id) SET
			status = $status,
			responded_on = time::now(),
			responded_by = type::record($decided_by)
	`
	vars := map[string]interface{}{
		"id":         id,
		"status":     status,
		"decided_by": decidedBy,
	}

	return r.db.Execute(ctx, query, vars)
}

// ApproveAndJoin approves a request and creates the membership in one atomic
// batch: request status, the participates_in relation, and the challenge's
// participant count all move together.
func (r *JoinRequestRepository) ApproveAndJoin(ctx context.Context, req *model.JoinRequest, decidedBy string, status model.JoinRequestStatus, startingWeightKg float64, goalWeightKg *float64) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($id) SET
			status = $status,
			responded_on = time::now(),
			responded_by = type::record($decided_by)
	`, map[string]interface{}{
		"id":         req.ID,
		"status":     status,
		"decided_by": decidedBy,
	})
	batch.Add(`
		RELATE (SELECT * FROM type::record($user))->participates_in->(SELECT * FROM type::record($challenge)) SET
			role = $role,
			starting_weight_kg = $starting_weight_kg,
			goal_weight_kg = IF $goal_weight_kg IS NOT NULL THEN $goal_weight_kg ELSE NONE END,
			joined_on = time::now(),
			updated_on = time::now()
	`, map[string]interface{}{
		"user":               req.UserID,
		"challenge":          req.ChallengeID,
		"role":               model.MembershipRoleParticipant,
		"starting_weight_kg": startingWeightKg,
		"goal_weight_kg":     floatPtrToNone(goalWeightKg),
	})
	batch.Add(`
		UPDATE type::record($challenge) SET participant_count += 1, updated_on = time::now()
	`, map[string]interface{}{"challenge": req.ChallengeID})

	err := batch.Execute(ctx, r.db)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: already a participant", database.ErrDuplicate)
	}
	return err
}

// Helper functions

func parseJoinRequestResult(result interface{}) (*model.JoinRequest, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return parseJoinRequestFromData(data), nil
}

func parseJoinRequestFromData(data map[string]interface{}) *model.JoinRequest {
	req := &model.JoinRequest{
		Message:          getStringPtr(data, "message"),
		Status:           model.JoinRequestStatus(getString(data, "status")),
		StartingWeightKg: getFloatPtr(data, "starting_weight_kg"),
		GoalWeightKg:     getFloatPtr(data, "goal_weight_kg"),
	}

	if id, ok := data["id"]; ok {
		req.ID = convertSurrealID(id)
	}
	if challenge, ok := data["challenge"]; ok {
		req.ChallengeID = convertSurrealID(challenge)
	}
	if user, ok := data["user"]; ok {
		req.UserID = convertSurrealID(user)
	}
	if t := getTime(data, "created_on"); t != nil {
		req.CreatedOn = *t
	}
	req.RespondedOn = getTime(data, "responded_on")
	if by, ok := data["responded_by"]; ok && by != nil {
		s := convertSurrealID(by)
		if s != "" && s != "<nil>" {
			req.RespondedBy = &s
		}
	}

	return req
}

func parseJoinRequestsFromResults(results []interface{}) ([]*model.JoinRequest, error) {
	requests := make([]*model.JoinRequest, 0)

	for _, result := range results {
		if resp, ok := result.(map[string]interface{}); ok {
			if status, ok := resp["status"].(string); ok && status == "OK" {
				if resultData, ok := resp["result"].([]interface{}); ok {
					for _, item := range resultData {
						if data, ok := item.(map[string]interface{}); ok {
							requests = append(requests, parseJoinRequestFromData(data))
						}
					}
				}
			}
		}
	}

	return requests, nil
}
