package memory

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.GardenRepository = (*GardenRepository)(nil)

// GardenRepository is the in-memory garden store
type GardenRepository struct {
	store *Store
}

// Create inserts a new garden
func (r *GardenRepository) Create(ctx context.Context, garden *models.Garden) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if garden.ID.IsZero() {
		garden.ID = primitive.NewObjectID()
	}
	r.store.gardens[garden.UserID] = copyGarden(garden)
	return nil
}

// FindByUserID finds the garden owned by a user
func (r *GardenRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Garden, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	garden, ok := r.store.gardens[userID]
	if !ok {
		return nil, models.ErrGardenNotFound
	}
	return copyGarden(garden), nil
}

// Update replaces an existing garden
func (r *GardenRepository) Update(ctx context.Context, garden *models.Garden) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.gardens[garden.UserID]; !ok {
		return models.ErrGardenNotFound
	}
	garden.UpdatedAt = time.Now()
	r.store.gardens[garden.UserID] = copyGarden(garden)
	return nil
}
