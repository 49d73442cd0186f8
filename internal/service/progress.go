package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/slimsquad/api/internal/model"
)

// ProgressRow is one participant's raw aggregate for a challenge window,
// as produced by the weight log repository
type ProgressRow struct {
	UserID           string
	DisplayName      string
	StartingWeightKg float64
	GoalWeightKg     *float64
	JoinedOn         string
	FirstWeightKg    *float64
	CurrentWeightKg  *float64
	LogCount         int
}

// ProgressService computes challenge leaderboards
type ProgressService struct {
	weightLogRepo    WeightLogRepository
	challengeService *ChallengeService
	now              func() time.Time
}

// ProgressServiceConfig holds configuration for the progress service
type ProgressServiceConfig struct {
	WeightLogRepo    WeightLogRepository
	ChallengeService *ChallengeService
	Now              func() time.Time // Defaults to time.Now
}

// NewProgressService creates a new progress service
func NewProgressService(cfg ProgressServiceConfig) *ProgressService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ProgressService{
		weightLogRepo:    cfg.WeightLogRepo,
		challengeService: cfg.ChallengeService,
		now:              cfg.Now,
	}
}

// GetChallengeProgress builds the leaderboard for a challenge. Participants
// only. Each entry compares a participant's latest weight inside the
// challenge window against their starting weight: the first log on or after
// joining, falling back to the weight declared at join. Ranking is by
// percentage lost, ties broken by earlier join; participants without logs
// rank last with zero change.
func (s *ProgressService) GetChallengeProgress(ctx context.Context, challengeID, userID string) (*model.ChallengeProgress, error) {
	challenge, err := s.challengeService.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	isParticipant, err := s.challengeService.repo.IsParticipant(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isParticipant {
		// Private challenges read as absent to outsiders
		if challenge.IsPrivate() {
			return nil, ErrChallengeNotFound
		}
		return nil, ErrNotParticipant
	}

	from := challenge.StartDate.UTC().Format(model.LogDateFormat)
	to := challenge.EndDate.UTC().Format(model.LogDateFormat)

	rows, err := s.weightLogRepo.GetProgressRows(ctx, challengeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress rows: %w", err)
	}

	entries := make([]ProgressEntryWithJoin, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, buildProgressEntry(row))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		// Entries without logs sink to the bottom
		if (a.Entry.ChangePercent == nil) != (b.Entry.ChangePercent == nil) {
			return a.Entry.ChangePercent != nil
		}
		if a.Entry.ChangePercent != nil && b.Entry.ChangePercent != nil {
			if *a.Entry.ChangePercent != *b.Entry.ChangePercent {
				// More weight lost means a lower (more negative) change
				return *a.Entry.ChangePercent < *b.Entry.ChangePercent
			}
		}
		return a.JoinedOn < b.JoinedOn
	})

	progress := &model.ChallengeProgress{
		ChallengeID: challengeID,
		GeneratedOn: s.now().UTC(),
		Entries:     make([]model.ProgressEntry, 0, len(entries)),
	}
	for i, e := range entries {
		e.Entry.Rank = i + 1
		progress.Entries = append(progress.Entries, e.Entry)
	}
	return progress, nil
}

// ProgressEntryWithJoin carries the join timestamp alongside an entry for
// tie-breaking during sort
type ProgressEntryWithJoin struct {
	Entry    model.ProgressEntry
	JoinedOn string
}

func buildProgressEntry(row *ProgressRow) ProgressEntryWithJoin {
	starting := row.StartingWeightKg
	if row.FirstWeightKg != nil {
		starting = *row.FirstWeightKg
	}

	entry := model.ProgressEntry{
		UserID:           row.UserID,
		DisplayName:      row.DisplayName,
		StartingWeightKg: starting,
		LogCount:         row.LogCount,
	}

	if row.CurrentWeightKg != nil && starting > 0 {
		current := *row.CurrentWeightKg
		change := current - starting
		percent := change / starting * 100
		entry.CurrentWeightKg = &current
		entry.ChangeKg = &change
		entry.ChangePercent = &percent
	}

	return ProgressEntryWithJoin{Entry: entry, JoinedOn: row.JoinedOn}
}
