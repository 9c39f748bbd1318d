package services

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure GardenServiceImpl implements GardenService
var _ GardenService = (*GardenServiceImpl)(nil)

// GardenServiceImpl manages the green garden grid. Planting spends green
// points; a failed plant (bad cell, occupied cell, unknown plant) leaves
// the points balance untouched because the balance is only debited after
// every check has passed, all under the user lock.
type GardenServiceImpl struct {
	gardenRepo repositories.GardenRepository
	plantRepo  repositories.PlantCatalogRepository
	points     *PointsServiceImpl
	locks      *UserLocker
	gridSize   int
}

// NewGardenService creates a new GardenServiceImpl
func NewGardenService(
	gardenRepo repositories.GardenRepository,
	plantRepo repositories.PlantCatalogRepository,
	points *PointsServiceImpl,
	locks *UserLocker,
	gridSize int,
) *GardenServiceImpl {
	return &GardenServiceImpl{
		gardenRepo: gardenRepo,
		plantRepo:  plantRepo,
		points:     points,
		locks:      locks,
		gridSize:   gridSize,
	}
}

// GetGarden returns the user's garden, creating an empty one on first use
func (s *GardenServiceImpl) GetGarden(ctx context.Context, userID primitive.ObjectID) (*models.Garden, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.getOrCreateLocked(ctx, userID)
}

func (s *GardenServiceImpl) getOrCreateLocked(ctx context.Context, userID primitive.ObjectID) (*models.Garden, error) {
	garden, err := s.gardenRepo.FindByUserID(ctx, userID)
	if err == nil {
		return garden, nil
	}
	if err != models.ErrGardenNotFound {
		return nil, err
	}

	garden = models.NewGarden(userID, s.gridSize)
	if err := s.gardenRepo.Create(ctx, garden); err != nil {
		return nil, err
	}
	slog.Info("garden created", "userId", userID.Hex(), "size", s.gridSize)
	return garden, nil
}

// Plant places a catalog plant into an empty cell and debits its cost in
// green points. Checks run in order: coordinates, occupancy, catalog
// lookup, then the points debit, so any failure leaves both the garden and
// the balance unchanged.
func (s *GardenServiceImpl) Plant(ctx context.Context, userID primitive.ObjectID, row, col int, plantID string) (*models.Garden, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	garden, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := garden.CellIndex(row, col)
	if idx < 0 {
		return nil, models.ErrOutOfBounds
	}
	if garden.Cells[idx].Plant != nil {
		return nil, models.ErrCellOccupied
	}

	entry, err := s.plantRepo.FindByID(ctx, plantID)
	if err != nil {
		return nil, err
	}
	if !entry.IsActive {
		return nil, models.ErrPlantNotFound
	}

	if _, err := s.points.debitPointsLocked(ctx, userID, entry.Cost); err != nil {
		return nil, err
	}

	garden.Cells[idx].Plant = &models.PlantInstance{
		PlantID:   entry.PlantID,
		Stage:     1,
		PlantedAt: time.Now(),
	}
	if err := s.gardenRepo.Update(ctx, garden); err != nil {
		// Give the points back; the plant never made it into the garden.
		if _, refundErr := s.points.creditPointsLocked(ctx, userID, entry.Cost); refundErr != nil {
			slog.Error("failed to refund points after garden update failure",
				"userId", userID.Hex(), "points", entry.Cost, "error", refundErr)
		}
		return nil, err
	}

	slog.Info("plant placed", "userId", userID.Hex(), "plantId", plantID, "row", row, "col", col, "cost", entry.Cost)
	return garden, nil
}

// Water advances the plant in a cell by one growth stage. Watering a fully
// grown plant is a harmless no-op reported as ALREADY_MATURE; watering an
// empty cell is an error.
func (s *GardenServiceImpl) Water(ctx context.Context, userID primitive.ObjectID, row, col int) (*models.WaterResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	garden, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := garden.CellIndex(row, col)
	if idx < 0 {
		return nil, models.ErrOutOfBounds
	}
	plant := garden.Cells[idx].Plant
	if plant == nil {
		return nil, models.ErrEmptyCell
	}

	entry, err := s.plantRepo.FindByID(ctx, plant.PlantID)
	if err != nil {
		return nil, err
	}

	result := &models.WaterResult{
		Row:       row,
		Col:       col,
		PlantID:   plant.PlantID,
		Stage:     plant.Stage,
		MaxStages: entry.GrowthStages,
	}

	if plant.Stage >= entry.GrowthStages {
		result.Status = models.WaterAlreadyMature
		return result, nil
	}

	now := time.Now()
	plant.Stage++
	plant.LastWateredAt = &now
	if err := s.gardenRepo.Update(ctx, garden); err != nil {
		return nil, err
	}

	result.Stage = plant.Stage
	result.Status = models.WaterGrown
	return result, nil
}

// Catalog returns the active plant catalog, cheapest first
func (s *GardenServiceImpl) Catalog(ctx context.Context) ([]*models.PlantCatalogEntry, error) {
	return s.plantRepo.FindAll(ctx, true)
}

// EnsureDefaultCatalog seeds the stock catalog when the collection is
// empty. Called once at startup.
func (s *GardenServiceImpl) EnsureDefaultCatalog(ctx context.Context) error {
	count, err := s.plantRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, entry := range models.DefaultPlantCatalog() {
		e := entry
		e.CreatedAt = time.Now()
		if err := s.plantRepo.Upsert(ctx, &e); err != nil {
			return err
		}
	}
	slog.Info("seeded default plant catalog", "plants", len(models.DefaultPlantCatalog()))
	return nil
}
