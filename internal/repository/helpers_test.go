package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestPosition(t *testing.T, db *gorm.DB, name string) *models.Position {
	t.Helper()
	position := &models.Position{Name: name}
	require.NoError(t, db.Create(position).Error)
	return position
}

func linkNames(t *testing.T, db *gorm.DB, personID uint64) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.Model(&models.PersonPosition{}).
		Where("person_id = ?", personID).
		Order("position_name ASC").
		Pluck("position_name", &names).Error)
	return names
}
