package models

import "time"

// PersonPosition links a person to a position by the position's name.
type PersonPosition struct {
	PersonID     uint64    `gorm:"primarykey" json:"person_id"`
	PositionName string    `gorm:"primarykey;type:varchar(255)" json:"position_name"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Position *Position `gorm:"foreignKey:PositionName;references:Name" json:"position,omitempty"`
}
