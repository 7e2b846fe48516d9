package models

import "time"

// Unit is an organizational grouping. Persons reference it by Name, not ID.
type Unit struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Persons []Person `gorm:"foreignKey:UnitName;references:Name" json:"persons,omitempty"`
}
