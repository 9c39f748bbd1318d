package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure PlantCatalogRepository implements the interface
var _ repositories.PlantCatalogRepository = (*PlantCatalogRepository)(nil)

// PlantCatalogRepository handles MongoDB operations for the plant catalog
type PlantCatalogRepository struct {
	collection *mongo.Collection
}

// NewPlantCatalogRepository creates a new PlantCatalogRepository
func NewPlantCatalogRepository(db *mongo.Database) *PlantCatalogRepository {
	return &PlantCatalogRepository{
		collection: db.Collection("plant_catalog"),
	}
}

// FindByID finds a catalog entry by plant ID
func (r *PlantCatalogRepository) FindByID(ctx context.Context, plantID string) (*models.PlantCatalogEntry, error) {
	var entry models.PlantCatalogEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": plantID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrPlantNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAll lists catalog entries, cheapest first
func (r *PlantCatalogRepository) FindAll(ctx context.Context, activeOnly bool) ([]*models.PlantCatalogEntry, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "costInGreenPoints", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.PlantCatalogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Upsert inserts or replaces a catalog entry
func (r *PlantCatalogRepository) Upsert(ctx context.Context, entry *models.PlantCatalogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.PlantID}, entry, opts)
	return err
}

// Count counts all catalog entries
func (r *PlantCatalogRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
