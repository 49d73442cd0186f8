package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
	"github.com/slimsquad/api/internal/service"
)

// WeightLogRepository handles weight log data access.
// A unique index on (user, log_date) enforces one log per user per day.
type WeightLogRepository struct {
	db database.Database
}

// NewWeightLogRepository creates a new weight log repository
func NewWeightLogRepository(db database.Database) *WeightLogRepository {
	return &WeightLogRepository{db: db}
}

// Create stores a new weight log
func (r *WeightLogRepository) Create(ctx context.Context, log *model.WeightLog) error {
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
	vars := map[string]interface{}{
		"user":      log.UserID,
		"weight_kg": log.WeightKg,
		"note":      ptrToNone(log.Note),
		"log_date":  log.LogDate,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: log already exists for this date", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	log.ID = created.ID
	log.CreatedOn = created.CreatedOn
	log.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a weight log by ID
func (r *WeightLogRepository) GetByID(ctx context.Context, id string) (*model.WeightLog, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	log, err := parseWeightLogResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

// GetByUserAndDate finds a user's log for a calendar day
func (r *WeightLogRepository) GetByUserAndDate(ctx context.Context, userID, logDate string) (*model.WeightLog, error) {
	query := `
		SELECT * FROM weight_log
		WHERE user = type::record($user) AND log_date = $log_date
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user":     userID,
		"log_date": logDate,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	log, err := parseWeightLogResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

// ListForUser lists a user's logs newest first, bounded by date range
func (r *WeightLogRepository) ListForUser(ctx context.Context, userID string, from, to string, limit, start int) ([]*model.WeightLog, error) {
	query := `
		SELECT * FROM weight_log
		WHERE user = type::record($user)
		AND ($from = '' OR log_date >= $from)
		AND ($to = '' OR log_date <= $to)
		ORDER BY log_date DESC
		LIMIT $limit START $start
	`
	vars := map[string]interface{}{
		"user":  userID,
		"from":  from,
		"to":    to,
		"limit": limit,
		"start": start,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseWeightLogsFromResults(results)
}

// Update amends a weight log's value and note
func (r *WeightLogRepository) Update(ctx context.Context, log *model.WeightLog) error {
	query := `
		UPDATE type::record($id) SET
			weight_kg = $weight_kg,
			note = IF $note IS NOT NULL THEN $note ELSE NONE END,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        log.ID,
		"weight_kg": log.WeightKg,
		"note":      ptrToNone(log.Note),
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a weight log
func (r *WeightLogRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// CountAll counts all recorded weight logs
func (r *WeightLogRepository) CountAll(ctx context.Context) (int, error) {
	result, err := r.db.QueryOne(ctx, `SELECT count() AS count FROM weight_log GROUP ALL`, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// GetProgressRows returns each participant of a challenge with their first
// and most recent weights inside the challenge window and their log count.
func (r *WeightLogRepository) GetProgressRows(ctx context.Context, challengeID, fromDate, toDate string) ([]*service.ProgressRow, error) {
	query := `
		SELECT in.id AS user_id, in.display_name AS display_name,
			starting_weight_kg, goal_weight_kg, joined_on,
			(SELECT weight_kg FROM weight_log
				WHERE user = $parent.in
				AND log_date >= $from AND log_date <= $to
				AND log_date >= string::slice(<string> $parent.joined_on, 0, 10)
				ORDER BY log_date ASC LIMIT 1)[0].weight_kg AS first_weight_kg,
			(SELECT weight_kg FROM weight_log
				WHERE user = $parent.in
				AND log_date >= $from AND log_date <= $to
				ORDER BY log_date DESC LIMIT 1)[0].weight_kg AS current_weight_kg,
			(SELECT count() AS count FROM weight_log
				WHERE user = $parent.in
				AND log_date >= $from AND log_date <= $to
				GROUP ALL)[0].count AS log_count
		FROM participates_in
		WHERE out = type::record($challenge)
	`
	vars := map[string]interface{}{
		"challenge": challengeID,
		"from":      fromDate,
		"to":        toDate,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := make([]*service.ProgressRow, 0)
	for _, result := range results {
		if resp, ok := result.(map[string]interface{}); ok {
			if status, ok := resp["status"].(string); ok && status == "OK" {
				if resultData, ok := resp["result"].([]interface{}); ok {
					for _, item := range resultData {
						if data, ok := item.(map[string]interface{}); ok {
							rows = append(rows, parseProgressRowFromData(data))
						}
					}
				}
			}
		}
	}

	return rows, nil
}

// Helper functions

func parseWeightLogResult(result interface{}) (*model.WeightLog, error) {
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

	return parseWeightLogFromData(data), nil
}

func parseWeightLogFromData(data map[string]interface{}) *model.WeightLog {
	log := &model.WeightLog{
		WeightKg: getFloat(data, "weight_kg"),
		Note:     getStringPtr(data, "note"),
		LogDate:  getString(data, "log_date"),
	}

	if id, ok := data["id"]; ok {
		log.ID = convertSurrealID(id)
	}
	if user, ok := data["user"]; ok {
		log.UserID = convertSurrealID(user)
	}
	if t := getTime(data, "created_on"); t != nil {
		log.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		log.UpdatedOn = *t
	}

	return log
}

func parseWeightLogsFromResults(results []interface{}) ([]*model.WeightLog, error) {
	logs := make([]*model.WeightLog, 0)

	for _, result := range results {
		if resp, ok := result.(map[string]interface{}); ok {
			if status, ok := resp["status"].(string); ok && status == "OK" {
				if resultData, ok := resp["result"].([]interface{}); ok {
					for _, item := range resultData {
						if data, ok := item.(map[string]interface{}); ok {
							logs = append(logs, parseWeightLogFromData(data))
						}
					}
				}
			}
		}
	}

	return logs, nil
}

func parseProgressRowFromData(data map[string]interface{}) *service.ProgressRow {
	row := &service.ProgressRow{
		DisplayName:      getString(data, "display_name"),
		StartingWeightKg: getFloat(data, "starting_weight_kg"),
		GoalWeightKg:     getFloatPtr(data, "goal_weight_kg"),
		FirstWeightKg:    getFloatPtr(data, "first_weight_kg"),
		CurrentWeightKg:  getFloatPtr(data, "current_weight_kg"),
		LogCount:         getInt(data, "log_count"),
	}
	if id, ok := data["user_id"]; ok {
		row.UserID = convertSurrealID(id)
	}
	if t := getTime(data, "joined_on"); t != nil {
		row.JoinedOn = t.Format(time.RFC3339)
	}
	return row
}
