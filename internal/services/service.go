package services

import (
	"context"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletService defines the interface for waste-wallet ledger operations.
// Every mutating call appends exactly one ledger entry and updates the
// account balance as a single unit under the caller's per-user lock.
type WalletService interface {
	// Credit appends a CREDIT transaction and raises currentBalance and
	// totalEarned by amount.
	Credit(ctx context.Context, userID primitive.ObjectID, amount float64, description string, sessionID *primitive.ObjectID) (*models.Transaction, error)

	// Debit appends a transaction of the given debit type (DEBIT, DONATION
	// or PAYMENT_TO_MUNICIPALITY) and lowers currentBalance by amount.
	Debit(ctx context.Context, userID primitive.ObjectID, amount float64, transactionType, description, recipientID string) (*models.Transaction, error)

	// Donate transfers amount from the wallet to an energy solidarity fund.
	Donate(ctx context.Context, userID primitive.ObjectID, amount float64, recipientFundID string) (*models.Transaction, error)

	// PayMunicipality debits the wallet and submits the payment to the
	// municipal waste-fee system.
	PayMunicipality(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.Transaction, error)

	// GetBalance returns the current account snapshot.
	GetBalance(ctx context.Context, userID primitive.ObjectID) (*models.Account, error)

	// GetCoverage derives the waste-fee coverage metrics from the account.
	GetCoverage(ctx context.Context, userID primitive.ObjectID) (*models.CoverageSnapshot, error)

	// ListTransactions returns the user's ledger, most recent first.
	ListTransactions(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*models.Transaction, error)

	// MonthlySummary aggregates one calendar month of wallet activity.
	MonthlySummary(ctx context.Context, userID primitive.ObjectID, year, month int) (*models.MonthlySummary, error)
}

// PointsService defines the interface for the green points counter.
type PointsService interface {
	CreditPoints(ctx context.Context, userID primitive.ObjectID, points int) (*models.Account, error)
	DebitPoints(ctx context.Context, userID primitive.ObjectID, points int) (*models.Account, error)
}

// SessionService defines the interface for the saving-session lifecycle.
type SessionService interface {
	Schedule(ctx context.Context, userID primitive.ObjectID, scheduledStart time.Time, durationHours int, allocationType string) (*models.Session, error)
	Start(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error)

	// Complete finishes an IN_PROGRESS session, computes the savings and
	// credits the reward. It is idempotent per session: completing an
	// already-COMPLETED session returns the stored result without
	// crediting again.
	Complete(ctx context.Context, sessionID primitive.ObjectID, actualConsumptionKWh float64) (*models.SessionResult, error)
	Cancel(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error)
	Fail(ctx context.Context, sessionID primitive.ObjectID, reason string) (*models.Session, error)
	GetByID(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, status string, limit, offset int) ([]*models.Session, error)

	// Stats aggregates over the user's COMPLETED sessions; the result always
	// equals the sum over the stored session set.
	Stats(ctx context.Context, userID primitive.ObjectID) (*models.SessionStats, error)
}

// GardenService defines the interface for the green garden automaton.
type GardenService interface {
	GetGarden(ctx context.Context, userID primitive.ObjectID) (*models.Garden, error)
	Plant(ctx context.Context, userID primitive.ObjectID, row, col int, plantID string) (*models.Garden, error)
	Water(ctx context.Context, userID primitive.ObjectID, row, col int) (*models.WaterResult, error)
	Catalog(ctx context.Context) ([]*models.PlantCatalogEntry, error)
	EnsureDefaultCatalog(ctx context.Context) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
}
