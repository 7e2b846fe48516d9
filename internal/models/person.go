package models

import "time"

type Person struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	UnitName     string    `gorm:"type:varchar(255);index;not null" json:"unit_name"`
	JoinedDate   time.Time `gorm:"index;not null" json:"joined_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Unit      *Unit            `gorm:"foreignKey:UnitName;references:Name" json:"unit,omitempty"`
	Positions []PersonPosition `gorm:"foreignKey:PersonID" json:"positions,omitempty"`
}
