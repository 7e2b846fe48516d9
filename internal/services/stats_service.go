package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/repository"
)

const (
	// DefaultTopLoginLimit caps the login ranking.
	DefaultTopLoginLimit = 10
	// DefaultMinLoginCount is the count a username must exceed to be ranked.
	DefaultMinLoginCount = 25
)

var ErrInvalidWindow = NewValidationError("startDate must not be after endDate")

// StatsService computes the directory statistics.
type StatsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
	}
}

// Stats is the combined statistics report.
type Stats struct {
	repository.EntityCounts
	TopLogins []repository.IdentityLoginCount
}

// Counts returns entity cardinalities, optionally windowed.
func (s *StatsService) Counts(ctx context.Context, window *database.Window) (*repository.EntityCounts, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	counts, err := s.statsRepo.Counts(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	return counts, nil
}

// TopLoginIdentities ranks usernames by login count. Only usernames with
// more than minCount logins in the window are returned, at most limit.
func (s *StatsService) TopLoginIdentities(ctx context.Context, window *database.Window, limit int, minCount int64) ([]repository.IdentityLoginCount, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopLoginLimit
	}
	top, err := s.statsRepo.TopLoginIdentities(ctx, window, limit, minCount)
	if err != nil {
		return nil, fmt.Errorf("failed to rank logins: %w", err)
	}
	return top, nil
}

// Stats returns the counts and the default login ranking.
func (s *StatsService) Stats(ctx context.Context, window *database.Window) (*Stats, error) {
	counts, err := s.Counts(ctx, window)
	if err != nil {
		return nil, err
	}
	top, err := s.TopLoginIdentities(ctx, window, DefaultTopLoginLimit, DefaultMinLoginCount)
	if err != nil {
		return nil, err
	}
	return &Stats{
		EntityCounts: *counts,
		TopLogins:    top,
	}, nil
}

func validateWindow(window *database.Window) error {
	if window != nil && window.Start.After(window.End) {
		return ErrInvalidWindow
	}
	return nil
}
