package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/directory-api/internal/models"
	"gorm.io/gorm"
)

// ErrUnknownPositions is returned when a requested position name does not
// resolve to an existing position. Positions are never created implicitly.
var ErrUnknownPositions = errors.New("unknown positions")

// GormPositionRepository is a GORM implementation of PositionRepository
type GormPositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &GormPositionRepository{db: db}
}

// Create creates a new position
func (r *GormPositionRepository) Create(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// FindByID finds a position by ID
func (r *GormPositionRepository) FindByID(ctx context.Context, id uint64) (*models.Position, error) {
	var position models.Position
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// FindByName finds a position by name
func (r *GormPositionRepository) FindByName(ctx context.Context, name string) (*models.Position, error) {
	var position models.Position
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// List returns all positions ordered by name
func (r *GormPositionRepository) List(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// Update updates a position. A rename is carried over to the links that
// referenced the old name in the same transaction.
func (r *GormPositionRepository) Update(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Position
		if err := tx.Select("id", "name").First(&current, position.ID).Error; err != nil {
			return err
		}

		if err := tx.Save(position).Error; err != nil {
			return err
		}

		if current.Name == position.Name {
			return nil
		}
		return tx.Model(&models.PersonPosition{}).
			Where("position_name = ?", current.Name).
			Update("position_name", position.Name).Error
	})
}

// Delete deletes a position without touching links that reference it
func (r *GormPositionRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Position{}, id).Error
}

// resolveOrRejectPositions loads every named position and fails with
// ErrUnknownPositions, listing the missing names, if any is absent.
func resolveOrRejectPositions(tx *gorm.DB, names []string) ([]models.Position, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var positions []models.Position
	if err := tx.Where("name IN ?", names).Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to look up positions: %w", err)
	}

	found := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		found[p.Name] = struct{}{}
	}

	var missing []string
	for _, name := range names {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrUnknownPositions, strings.Join(missing, ", "))
	}

	return positions, nil
}
