package memory

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository is the in-memory wallet ledger. Entries are held in
// append order and never mutated.
type TransactionRepository struct {
	store *Store
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if transaction.ID.IsZero() {
		transaction.ID = primitive.NewObjectID()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	r.store.transactions = append(r.store.transactions, copyTransaction(transaction))
	return nil
}

// FindByUserID finds a user's transactions, most recent first
func (r *TransactionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	// Walk the append-ordered log backwards.
	var result []*models.Transaction
	skipped := 0
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		t := r.store.transactions[i]
		if t.UserID != userID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, copyTransaction(t))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// FindByUserIDAndPeriod finds a user's transactions within [start, end)
func (r *TransactionRepository) FindByUserIDAndPeriod(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]*models.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []*models.Transaction
	for _, t := range r.store.transactions {
		if t.UserID != userID {
			continue
		}
		if t.CreatedAt.Before(start) || !t.CreatedAt.Before(end) {
			continue
		}
		result = append(result, copyTransaction(t))
	}
	return result, nil
}

// CountByUserID counts a user's transactions
func (r *TransactionRepository) CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, t := range r.store.transactions {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}
