package memory

import (
	"context"
	"testing"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTransactionOrderingAndPaging(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	for i := 1; i <= 5; i++ {
		err := store.Transactions().Create(ctx, &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionCredit,
			Amount:      float64(i),
			Description: "entry",
		})
		require.NoError(t, err)
	}
	// Another user's entries must not leak into the listing.
	err := store.Transactions().Create(ctx, &models.Transaction{
		UserID: primitive.NewObjectID(),
		Type:   models.TransactionCredit,
		Amount: 99,
	})
	require.NoError(t, err)

	t.Run("most recent first", func(t *testing.T) {
		list, err := store.Transactions().FindByUserID(ctx, userID, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, 5.0, list[0].Amount)
		assert.Equal(t, 1.0, list[4].Amount)
	})

	t.Run("limit and offset", func(t *testing.T) {
		list, err := store.Transactions().FindByUserID(ctx, userID, 2, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 4.0, list[0].Amount)
		assert.Equal(t, 3.0, list[1].Amount)
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.Transactions().CountByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})
}

func TestTransactionPeriodFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	base := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{-48 * time.Hour, 0, 48 * time.Hour} {
		err := store.Transactions().Create(ctx, &models.Transaction{
			UserID:    userID,
			Type:      models.TransactionCredit,
			Amount:    1,
			CreatedAt: base.Add(offset),
		})
		require.NoError(t, err)
	}

	list, err := store.Transactions().FindByUserIDAndPeriod(ctx, userID,
		base.Add(-24*time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessionStatusFilterAndOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	start := time.Date(2025, time.July, 1, 18, 0, 0, 0, time.UTC)
	statuses := []string{models.SessionScheduled, models.SessionCompleted, models.SessionCompleted}
	for i, status := range statuses {
		err := store.Sessions().Create(ctx, &models.Session{
			UserID:         userID,
			Status:         status,
			ScheduledStart: start.Add(time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}

	t.Run("newest scheduled start first", func(t *testing.T) {
		list, err := store.Sessions().FindByUserID(ctx, userID, "", 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.True(t, list[0].ScheduledStart.After(list[1].ScheduledStart))
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := store.Sessions().FindByUserID(ctx, userID, models.SessionCompleted, 10, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("completed lookup", func(t *testing.T) {
		list, err := store.Sessions().FindCompletedByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestRepositoriesReturnCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	garden := models.NewGarden(primitive.NewObjectID(), 3)
	require.NoError(t, store.Gardens().Create(ctx, garden))

	loaded, err := store.Gardens().FindByUserID(ctx, garden.UserID)
	require.NoError(t, err)

	// Mutating the returned value must not affect the stored garden.
	loaded.Cells[0].Plant = &models.PlantInstance{PlantID: "cactus", Stage: 1}

	fresh, err := store.Gardens().FindByUserID(ctx, garden.UserID)
	require.NoError(t, err)
	assert.Nil(t, fresh.Cells[0].Plant)
}
