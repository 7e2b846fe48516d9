package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/directory-api/internal/models"
	"github.com/yukikurage/directory-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPersonNameRequired     = NewValidationError("name is required")
	ErrUsernameRequired       = NewValidationError("username is required")
	ErrPersonUnitRequired     = NewValidationError("unit name is required")
	ErrPositionNameEmpty      = NewValidationError("position names cannot be empty")
	ErrUsernameLockedByLogins = NewValidationError("username cannot change after a login has been recorded")
)

// PersonService provides business logic for person operations.
type PersonService struct {
	personRepo repository.PersonRepository
	now        func() time.Time
}

// NewPersonService creates a new PersonService.
func NewPersonService(personRepo repository.PersonRepository) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		now:        time.Now,
	}
}

// CreatePersonInput represents the fields of a new person.
type CreatePersonInput struct {
	Name       string
	Username   string
	Password   string
	UnitName   string
	JoinedDate *time.Time
	Positions  []string
}

// UpdatePersonInput represents a partial update. Nil fields are left as they
// are; a non-nil Positions replaces the whole position set.
type UpdatePersonInput struct {
	Name       *string
	Username   *string
	Password   *string
	UnitName   *string
	JoinedDate *time.Time
	Positions  *[]string
}

// CreatePerson creates a person. A missing unit is created on the fly; a
// missing position rejects the whole request.
func (s *PersonService) CreatePerson(ctx context.Context, input CreatePersonInput) (*models.Person, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPersonNameRequired
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	unitName := strings.TrimSpace(input.UnitName)
	if unitName == "" {
		return nil, ErrPersonUnitRequired
	}
	positions, err := normalizePositionNames(input.Positions)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	joinedDate := s.now().UTC()
	if input.JoinedDate != nil {
		joinedDate = input.JoinedDate.UTC()
	}

	person := &models.Person{
		Name:         name,
		Username:     username,
		PasswordHash: hashedPassword,
		UnitName:     unitName,
		JoinedDate:   joinedDate,
	}

	if err := s.personRepo.Create(ctx, person, positions); err != nil {
		return nil, mapPersonWriteError(err, username)
	}

	return s.GetPerson(ctx, person.ID)
}

// ListPersons returns every person with unit and positions attached.
func (s *PersonService) ListPersons(ctx context.Context) ([]models.Person, error) {
	persons, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

// GetPerson returns a person with unit and positions attached.
func (s *PersonService) GetPerson(ctx context.Context, id uint64) (*models.Person, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	return person, nil
}

// UpdatePerson applies a partial update to a person.
func (s *PersonService) UpdatePerson(ctx context.Context, id uint64, input UpdatePersonInput) (*models.Person, error) {
	person, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrPersonNameRequired
		}
		person.Name = name
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
		if username != person.Username {
			if err := s.ensureUsernameFree(ctx, username); err != nil {
				return nil, err
			}
		}
		person.Username = username
	}

	if input.Password != nil {
		hashedPassword, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		person.PasswordHash = hashedPassword
	}

	if input.UnitName != nil {
		unitName := strings.TrimSpace(*input.UnitName)
		if unitName == "" {
			return nil, ErrPersonUnitRequired
		}
		person.UnitName = unitName
	}

	if input.JoinedDate != nil {
		person.JoinedDate = input.JoinedDate.UTC()
	}

	var positions *[]string
	if input.Positions != nil {
		names, err := normalizePositionNames(*input.Positions)
		if err != nil {
			return nil, err
		}
		positions = &names
	}

	if err := s.personRepo.Update(ctx, person, positions); err != nil {
		return nil, mapPersonWriteError(err, person.Username)
	}

	return s.GetPerson(ctx, id)
}

// DeletePerson removes a person and its position links.
func (s *PersonService) DeletePerson(ctx context.Context, id uint64) error {
	if err := s.personRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

// ReplacePositions sets the person's positions to exactly names.
func (s *PersonService) ReplacePositions(ctx context.Context, id uint64, names []string) (*repository.SyncResult, error) {
	positions, err := normalizePositionNames(names)
	if err != nil {
		return nil, err
	}

	result, err := s.personRepo.ReplacePositions(ctx, id, positions)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, mapPersonWriteError(err, "")
	}
	return result, nil
}

func (s *PersonService) ensureUsernameFree(ctx context.Context, username string) error {
	if _, err := s.personRepo.FindByUsername(ctx, username); err == nil {
		return duplicateUsername(username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

func mapPersonWriteError(err error, username string) error {
	switch {
	case errors.Is(err, repository.ErrUnknownPositions):
		return NewValidationError(err.Error())
	case errors.Is(err, repository.ErrUsernameImmutable):
		return ErrUsernameLockedByLogins
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicateUsername(username)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrPersonNotFound
	default:
		return fmt.Errorf("failed to save person: %w", err)
	}
}

func duplicateUsername(username string) error {
	return NewDuplicateError(fmt.Sprintf("username %q already exists", username))
}

func normalizePositionNames(names []string) ([]string, error) {
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrPositionNameEmpty
		}
		normalized = append(normalized, name)
	}
	return normalized, nil
}
