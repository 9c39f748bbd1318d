package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure GardenRepository implements the interface
var _ repositories.GardenRepository = (*GardenRepository)(nil)

// GardenRepository handles MongoDB operations for garden grids
type GardenRepository struct {
	collection *mongo.Collection
}

// NewGardenRepository creates a new GardenRepository
func NewGardenRepository(db *mongo.Database) *GardenRepository {
	return &GardenRepository{
		collection: db.Collection("gardens"),
	}
}

// Create inserts a new garden
func (r *GardenRepository) Create(ctx context.Context, garden *models.Garden) error {
	if garden.ID.IsZero() {
		garden.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, garden)
	return err
}

// FindByUserID finds the garden owned by a user
func (r *GardenRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Garden, error) {
	var garden models.Garden
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&garden)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrGardenNotFound
		}
		return nil, err
	}
	return &garden, nil
}

// Update replaces an existing garden document
func (r *GardenRepository) Update(ctx context.Context, garden *models.Garden) error {
	garden.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": garden.ID}, garden)
	return err
}
