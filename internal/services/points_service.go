package services

import (
	"context"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure PointsServiceImpl implements PointsService
var _ PointsService = (*PointsServiceImpl)(nil)

// PointsServiceImpl maintains the green points counter on the account.
// Points are a plain non-negative integer balance: no ledger, no expiry.
type PointsServiceImpl struct {
	accountRepo repositories.AccountRepository
	locks       *UserLocker
}

// NewPointsService creates a new PointsServiceImpl
func NewPointsService(accountRepo repositories.AccountRepository, locks *UserLocker) *PointsServiceImpl {
	return &PointsServiceImpl{accountRepo: accountRepo, locks: locks}
}

// CreditPoints adds points to the user's balance
func (s *PointsServiceImpl) CreditPoints(ctx context.Context, userID primitive.ObjectID, points int) (*models.Account, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.creditPointsLocked(ctx, userID, points)
}

func (s *PointsServiceImpl) creditPointsLocked(ctx context.Context, userID primitive.ObjectID, points int) (*models.Account, error) {
	if points <= 0 {
		return nil, models.ErrInvalidAmount
	}

	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	account.PointsBalance += points
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	slog.Info("green points credited", "userId", userID.Hex(), "points", points, "balance", account.PointsBalance)
	return account, nil
}

// DebitPoints removes points from the user's balance. The balance never
// goes negative; an oversized debit is rejected and changes nothing.
func (s *PointsServiceImpl) DebitPoints(ctx context.Context, userID primitive.ObjectID, points int) (*models.Account, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.debitPointsLocked(ctx, userID, points)
}

func (s *PointsServiceImpl) debitPointsLocked(ctx context.Context, userID primitive.ObjectID, points int) (*models.Account, error) {
	if points <= 0 {
		return nil, models.ErrInvalidAmount
	}

	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if points > account.PointsBalance {
		return nil, models.ErrInsufficientPoints
	}

	account.PointsBalance -= points
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	slog.Info("green points debited", "userId", userID.Hex(), "points", points, "balance", account.PointsBalance)
	return account, nil
}
