package repositories

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// AccountRepository defines the interface for rewards account operations.
// There is exactly one account per user, created at registration.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

// TransactionRepository defines the interface for the append-only wallet
// ledger. Entries are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*models.Transaction, error)
	FindByUserIDAndPeriod(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]*models.Transaction, error)
	CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// SessionRepository defines the interface for saving-session operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, status string, limit, offset int) ([]*models.Session, error)
	FindCompletedByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
}

// GardenRepository defines the interface for garden grid operations
type GardenRepository interface {
	Create(ctx context.Context, garden *models.Garden) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Garden, error)
	Update(ctx context.Context, garden *models.Garden) error
}

// PlantCatalogRepository defines the interface for the static plant catalog
type PlantCatalogRepository interface {
	FindByID(ctx context.Context, plantID string) (*models.PlantCatalogEntry, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*models.PlantCatalogEntry, error)
	Upsert(ctx context.Context, entry *models.PlantCatalogEntry) error
	Count(ctx context.Context) (int64, error)
}
