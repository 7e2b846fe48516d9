package repository

import (
	"context"

	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/models"
)

// UnitRepository defines the interface for unit data access
type UnitRepository interface {
	// Create creates a new unit
	Create(ctx context.Context, unit *models.Unit) error

	// FindByID finds a unit by ID, optionally with the persons referencing it
	FindByID(ctx context.Context, id uint64, withPersons bool) (*models.Unit, error)

	// FindByName finds a unit by its unique name
	FindByName(ctx context.Context, name string) (*models.Unit, error)

	// List returns all units ordered by name
	List(ctx context.Context) ([]models.Unit, error)

	// Update updates a unit
	Update(ctx context.Context, unit *models.Unit) error

	// Delete deletes a unit. Persons referencing it are left untouched.
	Delete(ctx context.Context, id uint64) error
}

// PositionRepository defines the interface for position data access
type PositionRepository interface {
	// Create creates a new position
	Create(ctx context.Context, position *models.Position) error

	// FindByID finds a position by ID
	FindByID(ctx context.Context, id uint64) (*models.Position, error)

	// FindByName finds a position by its unique name
	FindByName(ctx context.Context, name string) (*models.Position, error)

	// List returns all positions ordered by name
	List(ctx context.Context) ([]models.Position, error)

	// Update updates a position
	Update(ctx context.Context, position *models.Position) error

	// Delete deletes a position. Links referencing it are left untouched.
	Delete(ctx context.Context, id uint64) error
}

// PersonRepository defines the interface for person data access
type PersonRepository interface {
	// Create creates a person, auto-creating its unit and linking the
	// given positions within a single transaction.
	Create(ctx context.Context, person *models.Person, positionNames []string) error

	// FindByID finds a person with unit and positions preloaded
	FindByID(ctx context.Context, id uint64) (*models.Person, error)

	// FindByUsername finds a person by login identity
	FindByUsername(ctx context.Context, username string) (*models.Person, error)

	// List returns all persons with unit and positions preloaded
	List(ctx context.Context) ([]models.Person, error)

	// Update saves the person's columns, auto-creating its unit. When
	// positionNames is non-nil the position links are replaced as well.
	Update(ctx context.Context, person *models.Person, positionNames *[]string) error

	// Delete deletes a person and its position links
	Delete(ctx context.Context, id uint64) error

	// ReplacePositions makes the person's links equal to names
	ReplacePositions(ctx context.Context, personID uint64, names []string) (*SyncResult, error)
}

// LoginEventRepository defines the interface for the append-only login history
type LoginEventRepository interface {
	// Create appends a login event
	Create(ctx context.Context, event *models.LoginEvent) error

	// CountByUsername counts the login events recorded for username
	CountByUsername(ctx context.Context, username string) (int64, error)
}

// StatsRepository defines the read-only aggregation queries
type StatsRepository interface {
	// Counts returns entity cardinalities. The window filters persons by
	// joined_date and login events by occurred_at only.
	Counts(ctx context.Context, window *database.Window) (*EntityCounts, error)

	// TopLoginIdentities groups login events by username, keeps the groups
	// whose count is strictly greater than minCount and returns at most
	// limit of them, highest count first.
	TopLoginIdentities(ctx context.Context, window *database.Window, limit int, minCount int64) ([]IdentityLoginCount, error)
}

// SyncResult reports the links a position synchronization changed
type SyncResult struct {
	Added   []string
	Removed []string
}

// Changed reports whether the synchronization touched any link
func (r *SyncResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// EntityCounts holds the cardinality of each entity set
type EntityCounts struct {
	UnitCount     int64
	PositionCount int64
	PersonCount   int64
	LoginCount    int64
}

// IdentityLoginCount is one row of the login ranking
type IdentityLoginCount struct {
	Username   string
	LoginCount int64
}
