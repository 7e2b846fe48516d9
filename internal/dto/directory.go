package dto

import (
	"time"

	"github.com/yukikurage/directory-api/internal/models"
)

// UnitDTO represents a unit in API responses
type UnitDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitDetailDTO is a unit together with the persons that reference it
type UnitDetailDTO struct {
	UnitDTO
	Persons []PersonSummaryDTO `json:"persons"`
}

// PositionDTO represents a position in API responses
type PositionDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PersonSummaryDTO is the minimal person shape nested in other responses
type PersonSummaryDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PersonDTO represents a person. Unit and positions are reported by name,
// so a reference whose record was deleted still shows up.
type PersonDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	UnitName   string    `json:"unit_name"`
	Positions  []string  `json:"positions"`
	JoinedDate time.Time `json:"joined_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PositionSyncDTO reports what a position replacement changed
type PositionSyncDTO struct {
	Person  PersonDTO `json:"person"`
	Added   []string  `json:"added"`
	Removed []string  `json:"removed"`
}

// Conversion functions

// ToUnitDTO converts a Unit model to UnitDTO
func ToUnitDTO(unit models.Unit) UnitDTO {
	return UnitDTO{
		ID:        unit.ID,
		Name:      unit.Name,
		CreatedAt: unit.CreatedAt,
		UpdatedAt: unit.UpdatedAt,
	}
}

// ToUnitDTOs converts a slice of units
func ToUnitDTOs(units []models.Unit) []UnitDTO {
	dtos := make([]UnitDTO, len(units))
	for i, unit := range units {
		dtos[i] = ToUnitDTO(unit)
	}
	return dtos
}

// ToUnitDetailDTO converts a unit with preloaded persons
func ToUnitDetailDTO(unit models.Unit) UnitDetailDTO {
	persons := make([]PersonSummaryDTO, len(unit.Persons))
	for i, person := range unit.Persons {
		persons[i] = PersonSummaryDTO{
			ID:       person.ID,
			Name:     person.Name,
			Username: person.Username,
		}
	}
	return UnitDetailDTO{
		UnitDTO: ToUnitDTO(unit),
		Persons: persons,
	}
}

// ToPositionDTO converts a Position model to PositionDTO
func ToPositionDTO(position models.Position) PositionDTO {
	return PositionDTO{
		ID:        position.ID,
		Name:      position.Name,
		CreatedAt: position.CreatedAt,
		UpdatedAt: position.UpdatedAt,
	}
}

// ToPositionDTOs converts a slice of positions
func ToPositionDTOs(positions []models.Position) []PositionDTO {
	dtos := make([]PositionDTO, len(positions))
	for i, position := range positions {
		dtos[i] = ToPositionDTO(position)
	}
	return dtos
}

// ToPersonDTO converts a Person model to PersonDTO
func ToPersonDTO(person models.Person) PersonDTO {
	positions := make([]string, len(person.Positions))
	for i, link := range person.Positions {
		positions[i] = link.PositionName
	}
	return PersonDTO{
		ID:         person.ID,
		Name:       person.Name,
		Username:   person.Username,
		UnitName:   person.UnitName,
		Positions:  positions,
		JoinedDate: person.JoinedDate,
		CreatedAt:  person.CreatedAt,
		UpdatedAt:  person.UpdatedAt,
	}
}

// ToPersonDTOs converts a slice of persons
func ToPersonDTOs(persons []models.Person) []PersonDTO {
	dtos := make([]PersonDTO, len(persons))
	for i, person := range persons {
		dtos[i] = ToPersonDTO(person)
	}
	return dtos
}
