package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/directory-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxUnitResolveAttempts bounds the find-or-create retry on a name conflict.
const maxUnitResolveAttempts = 3

// ErrUnitResolveConflict is returned when a unit could neither be found nor
// created after maxUnitResolveAttempts.
var ErrUnitResolveConflict = errors.New("unit repository: could not resolve unit by name")

// GormUnitRepository is a GORM implementation of UnitRepository
type GormUnitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new UnitRepository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &GormUnitRepository{db: db}
}

// Create creates a new unit
func (r *GormUnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(unit).Error
}

// FindByID finds a unit by ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uint64, withPersons bool) (*models.Unit, error) {
	var unit models.Unit
	query := r.db.WithContext(ctx)
	if withPersons {
		query = query.Preload("Persons", func(db *gorm.DB) *gorm.DB {
			return db.Order("username ASC")
		})
	}
	if err := query.First(&unit, id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindByName finds a unit by name
func (r *GormUnitRepository) FindByName(ctx context.Context, name string) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// List returns all units ordered by name
func (r *GormUnitRepository) List(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Update updates a unit. A rename is carried over to the persons that
// referenced the old name in the same transaction.
func (r *GormUnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Unit
		if err := tx.Select("id", "name").First(&current, unit.ID).Error; err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(unit).Error; err != nil {
			return err
		}

		if current.Name == unit.Name {
			return nil
		}
		return tx.Model(&models.Person{}).
			Where("unit_name = ?", current.Name).
			Update("unit_name", unit.Name).Error
	})
}

// Delete deletes a unit without touching the persons that reference it
func (r *GormUnitRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Unit{}, id).Error
}

// resolveOrCreateUnit returns the unit called name, inserting it first when
// it does not exist. The insert ignores a conflict on the unique name so two
// transactions racing on the same name both end up reading the one row.
// Lookups after an insert attempt are locking reads: under REPEATABLE READ
// a plain SELECT would still see the snapshot taken before the racing
// transaction committed.
func resolveOrCreateUnit(tx *gorm.DB, name string) (*models.Unit, error) {
	for attempt := 0; attempt < maxUnitResolveAttempts; attempt++ {
		unit, err := findUnitByName(tx, name, attempt > 0)
		if err == nil {
			return unit, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up unit %q: %w", name, err)
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&models.Unit{Name: name}).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create unit %q: %w", name, err)
		}

		unit, err = findUnitByName(tx, name, true)
		if err == nil {
			return unit, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up unit %q: %w", name, err)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnitResolveConflict, name)
}

// findUnitByName reads the unit row. A locking read returns the latest
// committed version; sqlite ignores the clause.
func findUnitByName(tx *gorm.DB, name string, locking bool) (*models.Unit, error) {
	query := tx
	if locking {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var unit models.Unit
	if err := query.Where("name = ?", name).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}
