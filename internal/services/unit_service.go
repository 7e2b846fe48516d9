package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/directory-api/internal/models"
	"github.com/yukikurage/directory-api/internal/repository"
	"gorm.io/gorm"
)

var ErrUnitNameRequired = NewValidationError("unit name is required")

// UnitService provides business logic for unit operations.
type UnitService struct {
	unitRepo repository.UnitRepository
}

// NewUnitService creates a new UnitService.
func NewUnitService(unitRepo repository.UnitRepository) *UnitService {
	return &UnitService{
		unitRepo: unitRepo,
	}
}

// CreateUnit creates a unit with a name no other unit uses.
func (s *UnitService) CreateUnit(ctx context.Context, name string) (*models.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrUnitNameRequired
	}

	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	unit := &models.Unit{Name: name}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUnit(name)
		}
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	return unit, nil
}

// ListUnits returns every unit.
func (s *UnitService) ListUnits(ctx context.Context) ([]models.Unit, error) {
	units, err := s.unitRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

// GetUnit returns a unit together with the persons that reference it.
func (s *UnitService) GetUnit(ctx context.Context, id uint64) (*models.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to find unit: %w", err)
	}
	return unit, nil
}

// UpdateUnit renames a unit.
func (s *UnitService) UpdateUnit(ctx context.Context, id uint64, name string) (*models.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrUnitNameRequired
	}

	unit, err := s.unitRepo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to find unit: %w", err)
	}

	if unit.Name == name {
		return unit, nil
	}
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	unit.Name = name
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUnit(name)
		}
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	return unit, nil
}

// DeleteUnit removes a unit. Persons keep the unit name they reference.
func (s *UnitService) DeleteUnit(ctx context.Context, id uint64) error {
	if _, err := s.unitRepo.FindByID(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		return fmt.Errorf("failed to find unit: %w", err)
	}

	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	return nil
}

func (s *UnitService) ensureNameFree(ctx context.Context, name string) error {
	if _, err := s.unitRepo.FindByName(ctx, name); err == nil {
		return duplicateUnit(name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check unit name: %w", err)
	}
	return nil
}

func duplicateUnit(name string) error {
	return NewDuplicateError(fmt.Sprintf("unit %q already exists", name))
}
