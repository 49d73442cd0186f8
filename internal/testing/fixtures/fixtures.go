// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	challenge := f.CreateChallenge(t, user)
//	f.AddParticipant(t, other, challenge, 95.0)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email       string
	DisplayName string
	Password    string
	Role        model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:       fmt.Sprintf("user_%s@test.local", randomID()),
		DisplayName: fmt.Sprintf("User %s", randomID()),
		Password:    "testpass123",
		Role:        model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			display_name: $display_name,
			hash: $hash,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":        o.Email,
		"display_name": o.DisplayName,
		"hash":         string(hash),
		"role":         string(o.Role),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	user := parseUserResult(t, results)
	user.Hash = nil // Don't expose hash in fixture
	return user
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleAdmin
	})
}

// ============================================================================
// Challenge Fixtures
// ============================================================================

// ChallengeOpts customizes challenge creation
type ChallengeOpts struct {
	Name             string
	Description      string
	Visibility       model.ChallengeVisibility
	Status           model.ChallengeStatus
	StartDate        time.Time
	EndDate          time.Time
	MaxParticipants  int
	StartingWeightKg float64
	GoalWeightKg     *float64
}

// WithVisibility sets challenge visibility
func WithVisibility(vis model.ChallengeVisibility) func(*ChallengeOpts) {
	return func(o *ChallengeOpts) {
		o.Visibility = vis
	}
}

// WithStatus sets challenge status
func WithStatus(status model.ChallengeStatus) func(*ChallengeOpts) {
	return func(o *ChallengeOpts) {
		o.Status = status
	}
}

// CreateChallenge creates a challenge with the given user as creator member.
// Defaults to a private active challenge that started a week ago.
func (f *Factory) CreateChallenge(t *testing.T, creator *model.User, opts ...func(*ChallengeOpts)) *model.Challenge {
	t.Helper()

	o := &ChallengeOpts{
		Name:             fmt.Sprintf("Challenge %s", randomID()),
		Description:      "Test challenge description",
		Visibility:       model.ChallengeVisibilityPrivate,
		Status:           model.ChallengeStatusActive,
		StartDate:        time.Now().Add(-7 * 24 * time.Hour).UTC().Truncate(time.Second),
		EndDate:          time.Now().Add(21 * 24 * time.Hour).UTC().Truncate(time.Second),
		MaxParticipants:  model.DefaultMaxParticipants,
		StartingWeightKg: 92.0,
	}
	for _, fn := range opts {
		fn(o)
	}

	challengeQuery := `
		CREATE challenge CONTENT {
			name: $name,
			description: $description,
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
	`
	results, err := f.db.Query(ctx(), challengeQuery, map[string]interface{}{
		"name":             o.Name,
		"description":      o.Description,
		"creator":          creator.ID,
		"start_date":       o.StartDate.Format(time.RFC3339),
		"end_date":         o.EndDate.Format(time.RFC3339),
		"visibility":       string(o.Visibility),
		"status":           string(o.Status),
		"max_participants": o.MaxParticipants,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create challenge: %v", err)
	}

	challenge := parseChallengeResult(t, results)

	// Creator membership
	relateQuery := `
		RELATE (SELECT * FROM type::record($user))->participates_in->(SELECT * FROM type::record($challenge)) SET
			role = $role,
			starting_weight_kg = $starting_weight_kg,
			goal_weight_kg = IF $goal_weight_kg IS NOT NULL THEN $goal_weight_kg ELSE NONE END,
			joined_on = time::now(),
			updated_on = time::now()
	`
	if err := f.db.Execute(ctx(), relateQuery, map[string]interface{}{
		"user":               creator.ID,
		"challenge":          challenge.ID,
		"role":               string(model.MembershipRoleCreator),
		"starting_weight_kg": o.StartingWeightKg,
		"goal_weight_kg":     o.GoalWeightKg,
	}); err != nil {
		t.Fatalf("fixtures: failed to create creator membership: %v", err)
	}

	return challenge
}

// CreatePublicChallenge creates a public challenge
func (f *Factory) CreatePublicChallenge(t *testing.T, creator *model.User, opts ...func(*ChallengeOpts)) *model.Challenge {
	all := append([]func(*ChallengeOpts){WithVisibility(model.ChallengeVisibilityPublic)}, opts...)
	return f.CreateChallenge(t, creator, all...)
}

// AddParticipant adds a user as a regular participant of a challenge
// and bumps the denormalized participant count.
func (f *Factory) AddParticipant(t *testing.T, user *model.User, challenge *model.Challenge, startingWeightKg float64) {
	t.Helper()

	relateQuery := `
		RELATE (SELECT * FROM type::record($user))->participates_in->(SELECT * FROM type::record($challenge)) SET
			role = $role,
			starting_weight_kg = $starting_weight_kg,
			joined_on = time::now(),
			updated_on = time::now()
	`
	if err := f.db.Execute(ctx(), relateQuery, map[string]interface{}{
		"user":               user.ID,
		"challenge":          challenge.ID,
		"role":               string(model.MembershipRoleParticipant),
		"starting_weight_kg": startingWeightKg,
	}); err != nil {
		t.Fatalf("fixtures: failed to add participant: %v", err)
	}

	countQuery := `UPDATE type::record($challenge) SET participant_count += 1, updated_on = time::now()`
	if err := f.db.Execute(ctx(), countQuery, map[string]interface{}{
		"challenge": challenge.ID,
	}); err != nil {
		t.Fatalf("fixtures: failed to update participant count: %v", err)
	}
	challenge.ParticipantCount++
}

// ============================================================================
// Weight Log Fixtures
// ============================================================================

// WeightLogOpts customizes weight log creation
type WeightLogOpts struct {
	WeightKg float64
	LogDate  string // YYYY-MM-DD
	Note     *string
}

// CreateWeightLog creates a weigh-in for a user. LogDate defaults to today.
func (f *Factory) CreateWeightLog(t *testing.T, user *model.User, opts ...func(*WeightLogOpts)) *model.WeightLog {
	t.Helper()

	o := &WeightLogOpts{
		WeightKg: 90.0,
		LogDate:  time.Now().UTC().Format("2006-01-02"),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE weight_log CONTENT {
			user: type::record($user),
			weight_kg: $weight_kg,
			note: IF $note IS NOT NULL THEN $note ELSE NONE END,
			log_date: $log_date,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"user":      user.ID,
		"weight_kg": o.WeightKg,
		"note":      o.Note,
		"log_date":  o.LogDate,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create weight log: %v", err)
	}

	return parseWeightLogResult(t, results)
}

// LogWeight creates a weigh-in with an explicit date and weight.
func (f *Factory) LogWeight(t *testing.T, user *model.User, logDate string, weightKg float64) *model.WeightLog {
	return f.CreateWeightLog(t, user, func(o *WeightLogOpts) {
		o.LogDate = logDate
		o.WeightKg = weightKg
	})
}

// ============================================================================
// Join Request Fixtures
// ============================================================================

// JoinRequestOpts customizes join request creation
type JoinRequestOpts struct {
	Status           model.JoinRequestStatus
	Message          *string
	StartingWeightKg *float64
	GoalWeightKg     *float64
}

// CreateJoinRequest creates a pending join request from a user to a challenge
func (f *Factory) CreateJoinRequest(t *testing.T, challenge *model.Challenge, user *model.User, opts ...func(*JoinRequestOpts)) *model.JoinRequest {
	t.Helper()

	weight := 95.0
	o := &JoinRequestOpts{
		Status:           model.JoinRequestStatusPending,
		StartingWeightKg: &weight,
	}
	for _, fn := range opts {
		fn(o)
	}

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
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"challenge":          challenge.ID,
		"user":               user.ID,
		"message":            o.Message,
		"status":             string(o.Status),
		"starting_weight_kg": o.StartingWeightKg,
		"goal_weight_kg":     o.GoalWeightKg,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create join request: %v", err)
	}

	return parseJoinRequestResult(t, results)
}

// CreateInvite creates an invite from the challenge creator to a user
func (f *Factory) CreateInvite(t *testing.T, challenge *model.Challenge, user *model.User, opts ...func(*JoinRequestOpts)) *model.JoinRequest {
	all := append([]func(*JoinRequestOpts){func(o *JoinRequestOpts) {
		o.Status = model.JoinRequestStatusInvited
		o.StartingWeightKg = nil
	}}, opts...)
	return f.CreateJoinRequest(t, challenge, user, all...)
}

// ============================================================================
// Result Parsing Helpers
// ============================================================================

func parseUserResult(t *testing.T, results []interface{}) *model.User {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.User{
		ID:          getString(data, "id"),
		Email:       getString(data, "email"),
		DisplayName: getString(data, "display_name"),
		Role:        model.UserRole(getString(data, "role")),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
}

func parseChallengeResult(t *testing.T, results []interface{}) *model.Challenge {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Challenge{
		ID:               getString(data, "id"),
		Name:             getString(data, "name"),
		Description:      getStringPtr(data, "description"),
		CreatorID:        getString(data, "creator"),
		StartDate:        getTime(data, "start_date"),
		EndDate:          getTime(data, "end_date"),
		Visibility:       model.ChallengeVisibility(getString(data, "visibility")),
		Status:           model.ChallengeStatus(getString(data, "status")),
		MaxParticipants:  getInt(data, "max_participants"),
		ParticipantCount: getInt(data, "participant_count"),
		CreatedOn:        getTime(data, "created_on"),
		UpdatedOn:        getTime(data, "updated_on"),
	}
}

func parseWeightLogResult(t *testing.T, results []interface{}) *model.WeightLog {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.WeightLog{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user"),
		WeightKg:  getFloat(data, "weight_kg"),
		Note:      getStringPtr(data, "note"),
		LogDate:   getString(data, "log_date"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseJoinRequestResult(t *testing.T, results []interface{}) *model.JoinRequest {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.JoinRequest{
		ID:          getString(data, "id"),
		ChallengeID: getString(data, "challenge"),
		UserID:      getString(data, "user"),
		Message:     getStringPtr(data, "message"),
		Status:      model.JoinRequestStatus(getString(data, "status")),
		CreatedOn:   getTime(data, "created_on"),
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB record ID type - could be a struct or map
	if v := data[key]; v != nil {
		// Try to get the ID as a map with "tb" (table) and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func getInt(data map[string]interface{}, key string) int {
	if v, ok := data[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getFloat(data map[string]interface{}, key string) float64 {
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	}
	return time.Time{}
}
