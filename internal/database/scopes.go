package database

import (
	"time"

	"gorm.io/gorm"
)

// Window is an inclusive [Start, End] time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// InWindow restricts column to the window. A nil window leaves the query as is.
func InWindow(column string, window *Window) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if window == nil {
			return db
		}
		return db.Where(column+" BETWEEN ? AND ?", window.Start, window.End)
	}
}
