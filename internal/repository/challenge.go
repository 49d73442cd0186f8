package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
)

// ChallengeRepository handles challenge and membership data access.
// Memberships are stored as a participates_in graph relation from user to
// challenge. The denormalized participant_count on the challenge record is
// always written in the same atomic batch as the relation.
type ChallengeRepository struct {
	db database.Database
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db database.Database) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// newChallengeID mints a record ID usable with type::record
func newChallengeID() string {
	return "challenge:" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// CreateWithCreator creates a challenge and the creator's membership in a
// single atomic batch. The participant count starts at 1.
func (r *ChallengeRepository) CreateWithCreator(ctx context.Context, challenge *model.Challenge, startingWeightKg float64, goalWeightKg *float64) error {
	id := newChallengeID()

	batch := database.NewAtomicBatch()
	batch.Add(`
		CREATE type::record($id) CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			creator: type::record($creator),
			start_date: <datetime>$start_date,
			end_date: <datetime>$end_date,
			visibility: $visibility,
			status: $status,
			max_participants: $max_participants,
			participant_count: 1,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"id":               id,
		"name":             challenge.Name,
		"description":      ptrToNone(challenge.Description),
		"creator":          challenge.CreatorID,
		"start_date":       challenge.StartDate.Format(time.RFC3339),
		"end_date":         challenge.EndDate.Format(time.RFC3339),
		"visibility":       challenge.Visibility,
		"status":           challenge.Status,
		"max_participants": challenge.MaxParticipants,
	})
	batch.Add(`
		RELATE (SELECT * FROM type::record($user))->participates_in->(SELECT * FROM type::record($challenge)) SET
			role = $role,
			starting_weight_kg = $starting_weight_kg,
			goal_weight_kg = IF $goal_weight_kg IS NOT NULL THEN $goal_weight_kg ELSE NONE END,
			joined_on = time::now(),
			updated_on = time::now()
	`, map[string]interface{}{
		"user":               challenge.CreatorID,
		"challenge":          id,
		"role":               model.MembershipRoleCreator,
		"starting_weight_kg": startingWeightKg,
		"goal_weight_kg":     floatPtrToNone(goalWeightKg),
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return err
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if created == nil {
		return errors.New("challenge not found after create")
	}
	*challenge = *created
	return nil
}

// GetByID retrieves a challenge by ID
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*model.Challenge, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	challenge, err := parseChallengeResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return challenge, nil
}

// Update updates a challenge's mutable fields
func (r *ChallengeRepository) Update(ctx context.Context, challenge *model.Challenge) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			start_date = <datetime>$start_date,
			end_date = <datetime>$end_date,
			visibility = $visibility,
			status = $status,
			max_participants = $max_participants,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":               challenge.ID,
		"name":             challenge.Name,
		"description":      ptrToNone(challenge.Description),
		"start_date":       challenge.StartDate.Format(time.RFC3339),
		"end_date":         challenge.EndDate.Format(time.RFC3339),
		"visibility":       challenge.Visibility,
		"status":           challenge.Status,
		"max_participants": challenge.MaxParticipants,
	}

	return r.db.Execute(ctx, query, vars)
}

// SetStatus sets a challenge's lifecycle status
func (r *ChallengeRepository) SetStatus(ctx context.Context, id string, status model.ChallengeStatus) error {
	query := `UPDATE type::record($id) SET status = $status, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":     id,
		"status": status,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a challenge, its memberships, and its join requests
func (r *ChallengeRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE participates_in WHERE out = type::record($id)`, map[string]interface{}{"id": id})
	batch.Add(`DELETE join_request WHERE challenge = type::record($id)`, map[string]interface{}{"id": id})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})

	return batch.Execute(ctx, r.db)
}

// Discover lists public challenges that can still be joined
func (r *ChallengeRepository) Discover(ctx context.Context, status model.ChallengeStatus, limit, start int) ([]*model.Challenge, error) {
	query := `
		SELECT * FROM challenge
		WHERE visibility = 'public'
		AND (status = $status OR $status = '')
		AND status != 'cancelled'
		ORDER BY start_date ASC
		LIMIT $limit START $start
	`
	vars := map[string]interface{}{
		"status": status,
		"limit":  limit,
		"start":  start,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseChallengesFromResults(results)
}

// GetChallengesForUser retrieves all challenges a user participates in
func (r *ChallengeRepository) GetChallengesForUser(ctx context.Context, userID string) ([]*model.Challenge, error) {
	query := `SELECT out.* AS challenge FROM participates_in WHERE in = type::record($user)`
	vars := map[string]interface{}{"user": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	challenges := make([]*model.Challenge, 0)
	for _, result := range results {
		if resp, ok := result.(map[string]interface{}); ok {
			if status, ok := resp["status"].(string); ok && status == "OK" {
				if resultData, ok := resp["result"].([]interface{}); ok {
					for _, item := range resultData {
						if data, ok := item.(map[string]interface{}); ok {
							if challengeData, ok := data["challenge"].(map[string]interface{}); ok {
								challenge, err := parseChallengeFromData(challengeData)
								if err == nil {
									challenges = append(challenges, challenge)
								}
							}
						}
					}
				}
			}
		}
	}

	return challenges, nil
}

// CountChallengesForUser counts the challenges a user currently participates in
func (r *ChallengeRepository) CountChallengesForUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT count() AS count FROM participates_in
		WHERE in = type::record($user)
		AND out.status IN ['upcoming', 'active']
		GROUP ALL
	`
	vars := map[string]interface{}{"user": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// CountByStatus counts challenges per lifecycle status
func (r *ChallengeRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, count() AS count FROM challenge GROUP BY status`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return map[string]int{}, nil
		}
		return nil, err
	}

	counts := make(map[string]int)
	for _, result := range results {
		resp, ok := result.(map[string]interface{})
		if !ok || resp["status"] != "OK" {
			continue
		}
		rows, ok := resp["result"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range rows {
			row, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			status := getString(row, "status")
			if status == "" {
				continue
			}
			counts[status] = extractCountValue(row["count"])
		}
	}
	return counts, nil
}

// AddParticipant creates a membership and bumps the participant count atomically
func (r *ChallengeRepository) AddParticipant(ctx context.Context, challengeID, userID string, role model.MembershipRole, startingWeightKg float64, goalWeightKg *float64) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		RELATE (SELECT * FROM type::record($user))->participates_in->(SELECT * FROM type::record($challenge)) SET
			role = $role,
			starting_weight_kg = $starting_weight_kg,
			goal_weight_kg = IF $goal_weight_kg IS NOT NULL THEN $goal_weight_kg ELSE NONE END,
			joined_on = time::now(),
			updated_on = time::now()
	`, map[string]interface{}{
		"user":               userID,
		"challenge":          challengeID,
		"role":               role,
		"starting_weight_kg": startingWeightKg,
		"goal_weight_kg":     floatPtrToNone(goalWeightKg),
	})
	batch.Add(`
		UPDATE type::record($challenge) SET participant_count += 1, updated_on = time::now()
	`, map[string]interface{}{"challenge": challengeID})

	err := batch.Execute(ctx, r.db)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: already a participant", database.ErrDuplicate)
	}
	return err
}

// RemoveParticipant deletes a membership and drops the participant count atomically
func (r *ChallengeRepository) RemoveParticipant(ctx context.Context, challengeID, userID string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		DELETE participates_in WHERE in = type::record($user) AND out = type::record($challenge)
	`, map[string]interface{}{
		"user":      userID,
		"challenge": challengeID,
	})
	batch.Add(`
		UPDATE type::record($challenge) SET participant_count -= 1, updated_on = time::now()
	`, map[string]interface{}{"challenge": challengeID})

	return batch.Execute(ctx, r.db)
}

// IsParticipant checks if a user participates in a challenge
func (r *ChallengeRepository) IsParticipant(ctx context.Context, userID, challengeID string) (bool, error) {
	query := `
		SELECT count() AS count FROM participates_in
		WHERE in = type::record($user) AND out = type::record($challenge)
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user":      userID,
		"challenge": challengeID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return extractCount(result) > 0, nil
}

// GetMembership retrieves a user's membership in a challenge
func (r *ChallengeRepository) GetMembership(ctx context.Context, userID, challengeID string) (*model.Membership, error) {
	query := `
		SELECT * FROM participates_in
		WHERE in = type::record($user) AND out = type::record($challenge)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user":      userID,
		"challenge": challengeID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	membership, err := parseMembershipResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return membership, nil
}

// UpdateMembershipGoal sets the goal weight on a membership
func (r *ChallengeRepository) UpdateMembershipGoal(ctx context.Context, userID, challengeID string, goalWeightKg *float64) error {
	query := `
		UPDATE participates_in SET
			goal_weight_kg = IF $goal_weight_kg IS NOT NULL THEN $goal_weight_kg ELSE NONE END,
			updated_on = time::now()
		WHERE in = type::record($user) AND out = type::record($challenge)
	`
	vars := map[string]interface{}{
		"user":           userID,
		"challenge":      challengeID,
		"goal_weight_kg": floatPtrToNone(goalWeightKg),
	}

	return r.db.Execute(ctx, query, vars)
}

// GetParticipants retrieves all participants of a challenge with user info
func (r *ChallengeRepository) GetParticipants(ctx context.Context, challengeID string) ([]*model.Participant, error) {
	query := `
		SELECT in.id AS user_id, in.display_name AS display_name, role,
			starting_weight_kg, goal_weight_kg, joined_on
		FROM participates_in
		WHERE out = type::record($challenge)
		ORDER BY joined_on ASC
	`
	vars := map[string]interface{}{"challenge": challengeID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	participants := make([]*model.Participant, 0)
	for _, result := range results {
		if resp, ok := result.(map[string]interface{}); ok {
			if status, ok := resp["status"].(string); ok && status == "OK" {
				if resultData, ok := resp["result"].([]interface{}); ok {
					for _, item := range resultData {
						if data, ok := item.(map[string]interface{}); ok {
							participants = append(participants, parseParticipantFromData(data))
						}
					}
				}
			}
		}
	}

	return participants, nil
}

// SweepStatuses advances challenge statuses past their date boundaries.
// Cancelled challenges are never touched.
func (r *ChallengeRepository) SweepStatuses(ctx context.Context) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE challenge SET status = 'active', updated_on = time::now()
		WHERE status = 'upcoming' AND start_date <= time::now()
	`, nil)
	batch.Add(`
		UPDATE challenge SET status = 'completed', updated_on = time::now()
		WHERE status = 'active' AND end_date < time::now()
	`, nil)

	return batch.Execute(ctx, r.db)
}

// Helper functions

func floatPtrToNone(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func parseChallengeResult(result interface{}) (*model.Challenge, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	// Navigate through SurrealDB response structure
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

	return parseChallengeFromData(data)
}

func parseChallengeFromData(data map[string]interface{}) (*model.Challenge, error) {
	challenge := &model.Challenge{
		Name:             getString(data, "name"),
		Description:      getStringPtr(data, "description"),
		Visibility:       model.ChallengeVisibility(getString(data, "visibility")),
		Status:           model.ChallengeStatus(getString(data, "status")),
		MaxParticipants:  getInt(data, "max_participants"),
		ParticipantCount: getInt(data, "participant_count"),
	}

	if id, ok := data["id"]; ok {
		challenge.ID = convertSurrealID(id)
	}
	if creator, ok := data["creator"]; ok {
		challenge.CreatorID = convertSurrealID(creator)
	}
	if t := getTime(data, "start_date"); t != nil {
		challenge.StartDate = *t
	}
	if t := getTime(data, "end_date"); t != nil {
		challenge.EndDate = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		challenge.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		challenge.UpdatedOn = *t
	}

	return challenge, nil
}

func parseChallengesFromResults(results []interface{}) ([]*model.Challenge, error) {
	challenges := make([]*model.Challenge, 0)

	for _, result := range results {
		if resp, ok := result.(map[string]interface{}); ok {
			if status, ok := resp["status"].(string); ok && status == "OK" {
				if resultData, ok := resp["result"].([]interface{}); ok {
					for _, item := range resultData {
						if data, ok := item.(map[string]interface{}); ok {
							challenge, err := parseChallengeFromData(data)
							if err == nil {
								challenges = append(challenges, challenge)
							}
						}
					}
				}
			}
		}
	}

	return challenges, nil
}

func parseMembershipResult(result interface{}) (*model.Membership, error) {
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

	membership := &model.Membership{
		Role:             model.MembershipRole(getString(data, "role")),
		StartingWeightKg: getFloat(data, "starting_weight_kg"),
		GoalWeightKg:     getFloatPtr(data, "goal_weight_kg"),
	}

	if id, ok := data["id"]; ok {
		membership.ID = convertSurrealID(id)
	}
	if in, ok := data["in"]; ok {
		membership.UserID = convertSurrealID(in)
	}
	if out, ok := data["out"]; ok {
		membership.ChallengeID = convertSurrealID(out)
	}
	if t := getTime(data, "joined_on"); t != nil {
		membership.JoinedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		membership.UpdatedOn = *t
	}

	return membership, nil
}

func parseParticipantFromData(data map[string]interface{}) *model.Participant {
	p := &model.Participant{
		DisplayName:      getString(data, "display_name"),
		Role:             model.MembershipRole(getString(data, "role")),
		StartingWeightKg: getFloat(data, "starting_weight_kg"),
		GoalWeightKg:     getFloatPtr(data, "goal_weight_kg"),
	}
	if id, ok := data["user_id"]; ok {
		p.UserID = convertSurrealID(id)
	}
	if t := getTime(data, "joined_on"); t != nil {
		p.JoinedOn = *t
	}
	return p
}
