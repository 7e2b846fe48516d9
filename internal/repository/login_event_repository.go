package repository

import (
	"context"

	"github.com/yukikurage/directory-api/internal/models"
	"gorm.io/gorm"
)

// GormLoginEventRepository is a GORM implementation of LoginEventRepository.
// It has no update or delete: login history is append-only.
type GormLoginEventRepository struct {
	db *gorm.DB
}

// NewLoginEventRepository creates a new LoginEventRepository
func NewLoginEventRepository(db *gorm.DB) LoginEventRepository {
	return &GormLoginEventRepository{db: db}
}

// Create appends a login event
func (r *GormLoginEventRepository) Create(ctx context.Context, event *models.LoginEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CountByUsername counts the login events recorded for username
func (r *GormLoginEventRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoginEvent{}).
		Where("username = ?", username).
		Count(&count).Error
	return count, err
}
