package services

import (
	"testing"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGardenGetCreatesEmptyGrid(t *testing.T) {
	env := newTestEnv(t)

	garden, err := env.garden.GetGarden(env.ctx, env.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, garden.Size)
	require.Len(t, garden.Cells, 25)
	for _, cell := range garden.Cells {
		assert.Nil(t, cell.Plant)
	}

	// A second call returns the same garden, not a new one.
	again, err := env.garden.GetGarden(env.ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, garden.ID, again.ID)
}

func TestGardenPlantSpendsPoints(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.points.CreditPoints(env.ctx, env.user.ID, 100)
	require.NoError(t, err)

	garden, err := env.garden.Plant(env.ctx, env.user.ID, 2, 3, "cactus")
	require.NoError(t, err)

	idx := garden.CellIndex(2, 3)
	require.NotNil(t, garden.Cells[idx].Plant)
	assert.Equal(t, "cactus", garden.Cells[idx].Plant.PlantID)
	assert.Equal(t, 1, garden.Cells[idx].Plant.Stage)

	// Cactus costs 75 points.
	assert.Equal(t, 25, env.account(t).PointsBalance)
}

func TestGardenPlantFailuresLeavePointsUntouched(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.points.CreditPoints(env.ctx, env.user.ID, 100)
	require.NoError(t, err)

	t.Run("out of bounds", func(t *testing.T) {
		_, err := env.garden.Plant(env.ctx, env.user.ID, 5, 0, "cactus")
		assert.ErrorIs(t, err, models.ErrOutOfBounds)
		assert.Equal(t, 100, env.account(t).PointsBalance)
	})

	t.Run("negative coordinates", func(t *testing.T) {
		_, err := env.garden.Plant(env.ctx, env.user.ID, -1, 2, "cactus")
		assert.ErrorIs(t, err, models.ErrOutOfBounds)
	})

	t.Run("unknown plant", func(t *testing.T) {
		_, err := env.garden.Plant(env.ctx, env.user.ID, 0, 0, "baobab")
		assert.ErrorIs(t, err, models.ErrPlantNotFound)
		assert.Equal(t, 100, env.account(t).PointsBalance)
	})

	t.Run("too expensive", func(t *testing.T) {
		_, err := env.garden.Plant(env.ctx, env.user.ID, 0, 0, "olive_tree")
		assert.ErrorIs(t, err, models.ErrInsufficientPoints)
		assert.Equal(t, 100, env.account(t).PointsBalance)

		garden, err := env.garden.GetGarden(env.ctx, env.user.ID)
		require.NoError(t, err)
		assert.Nil(t, garden.Cells[garden.CellIndex(0, 0)].Plant)
	})

	t.Run("occupied cell", func(t *testing.T) {
		_, err := env.garden.Plant(env.ctx, env.user.ID, 1, 1, "cactus")
		require.NoError(t, err)

		_, err = env.garden.Plant(env.ctx, env.user.ID, 1, 1, "cactus")
		assert.ErrorIs(t, err, models.ErrCellOccupied)
		assert.Equal(t, 25, env.account(t).PointsBalance)
	})
}

func TestGardenWaterGrowsToMaturity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.points.CreditPoints(env.ctx, env.user.ID, 75)
	require.NoError(t, err)
	_, err = env.garden.Plant(env.ctx, env.user.ID, 0, 0, "cactus")
	require.NoError(t, err)

	// Cactus has 3 growth stages and starts at stage 1.
	result, err := env.garden.Water(env.ctx, env.user.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stage)
	assert.Equal(t, models.WaterGrown, result.Status)

	result, err = env.garden.Water(env.ctx, env.user.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stage)
	assert.Equal(t, models.WaterGrown, result.Status)

	t.Run("watering a mature plant is a no-op", func(t *testing.T) {
		result, err := env.garden.Water(env.ctx, env.user.ID, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Stage)
		assert.Equal(t, models.WaterAlreadyMature, result.Status)

		// Stage stays capped no matter how often it is watered.
		result, err = env.garden.Water(env.ctx, env.user.ID, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Stage)
	})
}

func TestGardenWaterValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("empty cell", func(t *testing.T) {
		_, err := env.garden.Water(env.ctx, env.user.ID, 0, 0)
		assert.ErrorIs(t, err, models.ErrEmptyCell)
	})

	t.Run("out of bounds", func(t *testing.T) {
		_, err := env.garden.Water(env.ctx, env.user.ID, 0, 7)
		assert.ErrorIs(t, err, models.ErrOutOfBounds)
	})
}

func TestGardenCatalog(t *testing.T) {
	env := newTestEnv(t)

	catalog, err := env.garden.Catalog(env.ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 6)

	// Cheapest first.
	assert.Equal(t, "cactus", catalog[0].PlantID)
	for i := 1; i < len(catalog); i++ {
		assert.GreaterOrEqual(t, catalog[i].Cost, catalog[i-1].Cost)
	}

	t.Run("seeding again does not duplicate", func(t *testing.T) {
		require.NoError(t, env.garden.EnsureDefaultCatalog(env.ctx))
		catalog, err := env.garden.Catalog(env.ctx)
		require.NoError(t, err)
		assert.Len(t, catalog, 6)
	})
}
