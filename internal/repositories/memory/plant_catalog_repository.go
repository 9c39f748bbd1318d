package memory

import (
	"context"
	"sort"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
)

var _ repositories.PlantCatalogRepository = (*PlantCatalogRepository)(nil)

// PlantCatalogRepository is the in-memory plant catalog store
type PlantCatalogRepository struct {
	store *Store
}

// FindByID finds a catalog entry by plant ID
func (r *PlantCatalogRepository) FindByID(ctx context.Context, plantID string) (*models.PlantCatalogEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entry, ok := r.store.plants[plantID]
	if !ok {
		return nil, models.ErrPlantNotFound
	}
	return copyPlant(entry), nil
}

// FindAll lists catalog entries, cheapest first
func (r *PlantCatalogRepository) FindAll(ctx context.Context, activeOnly bool) ([]*models.PlantCatalogEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*models.PlantCatalogEntry
	for _, entry := range r.store.plants {
		if activeOnly && !entry.IsActive {
			continue
		}
		entries = append(entries, copyPlant(entry))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Cost < entries[j].Cost
	})
	return entries, nil
}

// Upsert inserts or replaces a catalog entry
func (r *PlantCatalogRepository) Upsert(ctx context.Context, entry *models.PlantCatalogEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.store.plants[entry.PlantID] = copyPlant(entry)
	return nil
}

// Count counts all catalog entries
func (r *PlantCatalogRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.plants)), nil
}
