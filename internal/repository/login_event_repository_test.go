package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/directory-api/internal/models"
)

func TestLoginEventRepository_CreateAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLoginEventRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.LoginEvent{Username: "ann", OccurredAt: time.Now().UTC()}))
	}
	require.NoError(t, repo.Create(ctx, &models.LoginEvent{Username: "bob", OccurredAt: time.Now().UTC()}))

	count, err := repo.CountByUsername(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	none, err := repo.CountByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, none)
}
