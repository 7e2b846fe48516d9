package repository

import (
	"context"

	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/models"
	"gorm.io/gorm"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

// Counts runs the four counts inside one transaction so a person is never
// counted without the unit its creating transaction auto-created.
func (r *GormStatsRepository) Counts(ctx context.Context, window *database.Window) (*EntityCounts, error) {
	var counts EntityCounts
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Units and positions have no time attribute to filter on
		if err := tx.Model(&models.Unit{}).Count(&counts.UnitCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Position{}).Count(&counts.PositionCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Person{}).
			Scopes(database.InWindow("joined_date", window)).
			Count(&counts.PersonCount).Error; err != nil {
			return err
		}
		return tx.Model(&models.LoginEvent{}).
			Scopes(database.InWindow("occurred_at", window)).
			Count(&counts.LoginCount).Error
	})
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// TopLoginIdentities filters raw events by the window, then groups them.
// The threshold is strict: a username with exactly minCount logins is dropped.
func (r *GormStatsRepository) TopLoginIdentities(ctx context.Context, window *database.Window, limit int, minCount int64) ([]IdentityLoginCount, error) {
	rows := []IdentityLoginCount{}
	err := r.db.WithContext(ctx).
		Model(&models.LoginEvent{}).
		Select("username, COUNT(*) AS login_count").
		Scopes(database.InWindow("occurred_at", window)).
		Group("username").
		Having("COUNT(*) > ?", minCount).
		Order("login_count DESC").
		Order("username ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
