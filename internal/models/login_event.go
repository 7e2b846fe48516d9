package models

import "time"

// LoginEvent records one successful authentication. Rows are never updated
// or deleted; Username holds the value in use at login time.
type LoginEvent struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Username   string    `gorm:"type:varchar(255);index;not null" json:"username"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurred_at"`
}
