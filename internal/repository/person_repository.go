package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yukikurage/directory-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUsernameImmutable is returned when an update renames a person whose
	// username already appears in the login history.
	ErrUsernameImmutable = errors.New("username cannot change after a login has been recorded")
	// ErrResolveUnit is returned when the unit referenced by a person cannot be resolved.
	ErrResolveUnit = errors.New("person repository: resolve unit failed")
	// ErrSyncPositions is returned when replacing the position links fails.
	ErrSyncPositions = errors.New("person repository: sync positions failed")
)

// GormPersonRepository is a GORM implementation of PersonRepository
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &GormPersonRepository{db: db}
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Unit").
		Preload("Positions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position_name ASC")
		}).
		Preload("Positions.Position")
}

// Create creates a person, its unit if missing, and its position links atomically.
func (r *GormPersonRepository) Create(ctx context.Context, person *models.Person, positionNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := resolveOrCreateUnit(tx, person.UnitName); err != nil {
			return fmt.Errorf("%w: %w", ErrResolveUnit, err)
		}

		if err := tx.Omit(clause.Associations).Create(person).Error; err != nil {
			return err
		}

		if _, err := syncPositions(tx, person.ID, positionNames); err != nil {
			return err
		}

		return nil
	})
}

// FindByID finds a person by ID with unit and positions preloaded
func (r *GormPersonRepository) FindByID(ctx context.Context, id uint64) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Scopes(withAssociations).First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByUsername finds a person by username
func (r *GormPersonRepository) FindByUsername(ctx context.Context, username string) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// List returns all persons ordered by ID
func (r *GormPersonRepository) List(ctx context.Context) ([]models.Person, error) {
	var persons []models.Person
	if err := r.db.WithContext(ctx).Scopes(withAssociations).Order("id ASC").Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

// Update saves the person, resolving its unit and, when requested, its positions.
func (r *GormPersonRepository) Update(ctx context.Context, person *models.Person, positionNames *[]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Person
		if err := tx.Select("id", "username").First(&current, person.ID).Error; err != nil {
			return err
		}

		if current.Username != person.Username {
			var logins int64
			if err := tx.Model(&models.LoginEvent{}).Where("username = ?", current.Username).Count(&logins).Error; err != nil {
				return fmt.Errorf("failed to count login events: %w", err)
			}
			if logins > 0 {
				return ErrUsernameImmutable
			}
		}

		if _, err := resolveOrCreateUnit(tx, person.UnitName); err != nil {
			return fmt.Errorf("%w: %w", ErrResolveUnit, err)
		}

		if err := tx.Omit(clause.Associations).Save(person).Error; err != nil {
			return err
		}

		if positionNames == nil {
			return nil
		}
		_, err := syncPositions(tx, person.ID, *positionNames)
		return err
	})
}

// Delete deletes a person and its position links. Units and positions stay.
func (r *GormPersonRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.Select("id").First(&person, id).Error; err != nil {
			return err
		}

		if err := tx.Where("person_id = ?", id).Delete(&models.PersonPosition{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Person{}, id).Error
	})
}

// ReplacePositions makes the person's position links equal to names
func (r *GormPersonRepository) ReplacePositions(ctx context.Context, personID uint64, names []string) (*SyncResult, error) {
	var result *SyncResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.Select("id").First(&person, personID).Error; err != nil {
			return err
		}

		var err error
		result, err = syncPositions(tx, personID, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// syncPositions replaces the person's links with the requested set. Every
// requested name is resolved before the first write, so an unknown position
// leaves the current links as they are. Links present in both sets are not
// touched; calling it again with the same set changes nothing.
func syncPositions(tx *gorm.DB, personID uint64, requested []string) (*SyncResult, error) {
	names := uniqueNames(requested)

	if _, err := resolveOrRejectPositions(tx, names); err != nil {
		return nil, err
	}

	var links []models.PersonPosition
	if err := tx.Where("person_id = ?", personID).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyncPositions, err)
	}

	current := make([]string, len(links))
	for i, link := range links {
		current[i] = link.PositionName
	}

	result := diffPositions(current, names)

	if len(result.Removed) > 0 {
		if err := tx.Where("person_id = ? AND position_name IN ?", personID, result.Removed).
			Delete(&models.PersonPosition{}).Error; err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyncPositions, err)
		}
	}

	if len(result.Added) > 0 {
		added := make([]models.PersonPosition, len(result.Added))
		for i, name := range result.Added {
			added[i] = models.PersonPosition{
				PersonID:     personID,
				PositionName: name,
			}
		}
		if err := tx.Omit(clause.Associations).Create(&added).Error; err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyncPositions, err)
		}
	}

	return result, nil
}

// diffPositions computes which links to add and remove to turn current into
// requested. Both slices of the result are sorted.
func diffPositions(current, requested []string) *SyncResult {
	have := make(map[string]struct{}, len(current))
	for _, name := range current {
		have[name] = struct{}{}
	}
	want := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		want[name] = struct{}{}
	}

	result := &SyncResult{Added: []string{}, Removed: []string{}}
	for name := range want {
		if _, ok := have[name]; !ok {
			result.Added = append(result.Added, name)
		}
	}
	for name := range have {
		if _, ok := want[name]; !ok {
			result.Removed = append(result.Removed, name)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	return result
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}
