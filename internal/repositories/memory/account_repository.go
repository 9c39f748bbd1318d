package memory

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository is the in-memory rewards account store
type AccountRepository struct {
	store *Store
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	r.store.accounts[account.UserID] = copyAccount(account)
	return nil
}

// FindByUserID finds the account owned by a user
func (r *AccountRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[userID]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// Update replaces an existing account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[account.UserID]; !ok {
		return models.ErrAccountNotFound
	}
	account.UpdatedAt = time.Now()
	r.store.accounts[account.UserID] = copyAccount(account)
	return nil
}
