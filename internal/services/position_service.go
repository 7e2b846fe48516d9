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

var ErrPositionNameRequired = NewValidationError("position name is required")

// PositionService provides business logic for position operations.
type PositionService struct {
	positionRepo repository.PositionRepository
}

// NewPositionService creates a new PositionService.
func NewPositionService(positionRepo repository.PositionRepository) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
	}
}

// CreatePosition creates a position with a name no other position uses.
func (s *PositionService) CreatePosition(ctx context.Context, name string) (*models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPositionNameRequired
	}

	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	position := &models.Position{Name: name}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatePosition(name)
		}
		return nil, fmt.Errorf("failed to create position: %w", err)
	}

	return position, nil
}

// ListPositions returns every position.
func (s *PositionService) ListPositions(ctx context.Context) ([]models.Position, error) {
	positions, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// GetPosition returns a position by ID.
func (s *PositionService) GetPosition(ctx context.Context, id uint64) (*models.Position, error) {
	position, err := s.positionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return position, nil
}

// UpdatePosition renames a position and the links that use its name.
func (s *PositionService) UpdatePosition(ctx context.Context, id uint64, name string) (*models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPositionNameRequired
	}

	position, err := s.positionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}

	if position.Name == name {
		return position, nil
	}
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	position.Name = name
	if err := s.positionRepo.Update(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatePosition(name)
		}
		return nil, fmt.Errorf("failed to update position: %w", err)
	}

	return position, nil
}

// DeletePosition removes a position. Existing links to it are kept.
func (s *PositionService) DeletePosition(ctx context.Context, id uint64) error {
	if _, err := s.positionRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPositionNotFound
		}
		return fmt.Errorf("failed to find position: %w", err)
	}

	if err := s.positionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

func (s *PositionService) ensureNameFree(ctx context.Context, name string) error {
	if _, err := s.positionRepo.FindByName(ctx, name); err == nil {
		return duplicatePosition(name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check position name: %w", err)
	}
	return nil
}

func duplicatePosition(name string) error {
	return NewDuplicateError(fmt.Sprintf("position %q already exists", name))
}
