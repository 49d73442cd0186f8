package service

import (
	"context"
	"fmt"
)

// UserCounter counts registered users
type UserCounter interface {
	CountAll(ctx context.Context) (int, error)
}

// ChallengeCounter counts challenges grouped by status
type ChallengeCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// WeightLogCounter counts recorded weight logs
type WeightLogCounter interface {
	CountAll(ctx context.Context) (int, error)
}

// PlatformStats is an operator-facing snapshot of platform activity
type PlatformStats struct {
	TotalUsers         int            `json:"total_users"`
	TotalChallenges    int            `json:"total_challenges"`
	ChallengesByStatus map[string]int `json:"challenges_by_status"`
	TotalWeightLogs    int            `json:"total_weight_logs"`
}

// AdminService exposes operator-only platform reporting
type AdminService struct {
	users      UserCounter
	challenges ChallengeCounter
	weightLogs WeightLogCounter
}

// AdminServiceConfig holds configuration for the admin service
type AdminServiceConfig struct {
	Users      UserCounter
	Challenges ChallengeCounter
	WeightLogs WeightLogCounter
}

// NewAdminService creates a new admin service
func NewAdminService(cfg AdminServiceConfig) *AdminService {
	return &AdminService{
		users:      cfg.Users,
		challenges: cfg.Challenges,
		weightLogs: cfg.WeightLogs,
	}
}

// Stats gathers platform-wide counts
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	byStatus, err := s.challenges.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count challenges: %w", err)
	}
	totalChallenges := 0
	for _, n := range byStatus {
		totalChallenges += n
	}

	logs, err := s.weightLogs.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count weight logs: %w", err)
	}

	return &PlatformStats{
		TotalUsers:         users,
		TotalChallenges:    totalChallenges,
		ChallengesByStatus: byStatus,
		TotalWeightLogs:    logs,
	}, nil
}
