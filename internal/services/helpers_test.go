package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-that-is-long-enough-32"

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

func createTestPositions(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, db.Create(&models.Position{Name: name}).Error)
	}
}

func recordLogins(t *testing.T, db *gorm.DB, username string, n int, at time.Time) {
	t.Helper()
	events := make([]models.LoginEvent, n)
	for i := range events {
		events[i] = models.LoginEvent{Username: username, OccurredAt: at.Add(time.Duration(i) * time.Second)}
	}
	if n > 0 {
		require.NoError(t, db.CreateInBatches(events, 100).Error)
	}
}

// fakeClock is a settable time source shared by the token and auth services.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
