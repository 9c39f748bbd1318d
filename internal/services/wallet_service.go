package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"github.com/powersave-cy/powersave-backend/pkg/municipality"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WalletServiceImpl implements WalletService
var _ WalletService = (*WalletServiceImpl)(nil)

// WalletServiceImpl manages the waste-wallet ledger. Every mutation runs
// under the per-user lock and appends exactly one immutable transaction
// alongside the balance update, so the ledger always reconstructs the
// balance.
type WalletServiceImpl struct {
	accountRepo      repositories.AccountRepository
	transactionRepo  repositories.TransactionRepository
	userRepo         repositories.UserRepository
	municipality     *municipality.Client
	calculator       *SavingsCalculator
	locks            *UserLocker
	defaultAnnualFee float64
}

// NewWalletService creates a new WalletServiceImpl
func NewWalletService(
	accountRepo repositories.AccountRepository,
	transactionRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	municipalityClient *municipality.Client,
	calculator *SavingsCalculator,
	locks *UserLocker,
	defaultAnnualFee float64,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		accountRepo:      accountRepo,
		transactionRepo:  transactionRepo,
		userRepo:         userRepo,
		municipality:     municipalityClient,
		calculator:       calculator,
		locks:            locks,
		defaultAnnualFee: defaultAnnualFee,
	}
}

// Credit appends a CREDIT transaction and raises the balance
func (s *WalletServiceImpl) Credit(ctx context.Context, userID primitive.ObjectID, amount float64, description string, sessionID *primitive.ObjectID) (*models.Transaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.creditLocked(ctx, userID, amount, description, sessionID)
}

// creditLocked is the lock-free credit path shared with the session
// lifecycle, which already holds the user lock when it pays out a reward.
func (s *WalletServiceImpl) creditLocked(ctx context.Context, userID primitive.ObjectID, amount float64, description string, sessionID *primitive.ObjectID) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := *account
	account.CurrentBalance = addMoney(account.CurrentBalance, amount)
	account.TotalEarned = addMoney(account.TotalEarned, amount)
	if sessionID != nil {
		account.SessionsContributed++
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	transaction := &models.Transaction{
		UserID:       userID,
		Reference:    uuid.NewString(),
		Type:         models.TransactionCredit,
		Amount:       amount,
		BalanceAfter: account.CurrentBalance,
		Description:  description,
		SessionID:    sessionID,
		CreatedAt:    time.Now(),
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		// Roll the balance back so the ledger and account stay consistent.
		if revertErr := s.accountRepo.Update(ctx, &previous); revertErr != nil {
			slog.Error("failed to revert account after ledger append failure",
				"userId", userID.Hex(), "error", revertErr)
		}
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	slog.Info("wallet credited", "userId", userID.Hex(), "amount", amount, "balance", account.CurrentBalance)
	return transaction, nil
}

// Debit appends a debit-type transaction and lowers the balance
func (s *WalletServiceImpl) Debit(ctx context.Context, userID primitive.ObjectID, amount float64, transactionType, description, recipientID string) (*models.Transaction, error) {
	if !models.IsDebitType(transactionType) {
		return nil, fmt.Errorf("unsupported debit transaction type %q", transactionType)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.debitLocked(ctx, userID, amount, transactionType, description, recipientID)
}

func (s *WalletServiceImpl) debitLocked(ctx context.Context, userID primitive.ObjectID, amount float64, transactionType, description, recipientID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount > account.CurrentBalance {
		return nil, models.ErrInsufficientFunds
	}

	previous := *account
	account.CurrentBalance = subMoney(account.CurrentBalance, amount)
	account.TotalSpent = addMoney(account.TotalSpent, amount)
	if transactionType == models.TransactionPaymentMunicipality {
		now := time.Now()
		account.LastPaymentDate = &now
		account.LastPaymentAmount = amount
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	transaction := &models.Transaction{
		UserID:              userID,
		Reference:           uuid.NewString(),
		Type:                transactionType,
		Amount:              amount,
		BalanceAfter:        account.CurrentBalance,
		Description:         description,
		DonationRecipientID: recipientID,
		CreatedAt:           time.Now(),
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		if revertErr := s.accountRepo.Update(ctx, &previous); revertErr != nil {
			slog.Error("failed to revert account after ledger append failure",
				"userId", userID.Hex(), "error", revertErr)
		}
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	slog.Info("wallet debited", "userId", userID.Hex(), "type", transactionType, "amount", amount, "balance", account.CurrentBalance)
	return transaction, nil
}

// Donate transfers wallet funds to an energy solidarity fund
func (s *WalletServiceImpl) Donate(ctx context.Context, userID primitive.ObjectID, amount float64, recipientFundID string) (*models.Transaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.debitLocked(ctx, userID, amount, models.TransactionDonation, "Donation to Energy Solidarity Fund", recipientFundID)
}

// PayMunicipality debits the wallet and submits the payment to the
// municipal waste-fee system. The external submission happens before the
// local debit: a rejected payment leaves the wallet untouched.
func (s *WalletServiceImpl) PayMunicipality(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.Transaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount > account.CurrentBalance {
		return nil, models.ErrInsufficientFunds
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.municipality.SubmitPayment(user.PropertyNumber, amount); err != nil {
		slog.Error("municipality payment rejected", "userId", userID.Hex(), "amount", amount, "error", err)
		return nil, fmt.Errorf("municipality payment failed: %w", err)
	}

	return s.debitLocked(ctx, userID, amount, models.TransactionPaymentMunicipality,
		fmt.Sprintf("Waste fee payment for property %s", user.PropertyNumber), "")
}

// GetBalance returns the current account snapshot
func (s *WalletServiceImpl) GetBalance(ctx context.Context, userID primitive.ObjectID) (*models.Account, error) {
	return s.accountRepo.FindByUserID(ctx, userID)
}

// GetCoverage derives the waste-fee coverage metrics from the account. The
// annual fee comes from the municipality when the user has a registered
// property, then from the user's stored fee, then from the configured
// default. A municipality outage falls through to the stored fee.
func (s *WalletServiceImpl) GetCoverage(ctx context.Context, userID primitive.ObjectID) (*models.CoverageSnapshot, error) {
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	annualFee := s.defaultAnnualFee
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		if user.AnnualWasteFee > 0 {
			annualFee = user.AnnualWasteFee
		}
		if user.PropertyNumber != "" {
			balance, err := s.municipality.GetWasteFeeBalance(user.PropertyNumber)
			switch {
			case err != nil:
				slog.Warn("municipal fee balance unavailable", "userId", userID.Hex(), "error", err)
			case balance.AnnualFee > 0:
				annualFee = balance.AnnualFee
			}
		}
	}

	snapshot := s.calculator.Coverage(account.CurrentBalance, annualFee)
	return &snapshot, nil
}

// ListTransactions returns the user's ledger, most recent first
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactionRepo.FindByUserID(ctx, userID, limit, offset)
}

// MonthlySummary aggregates one calendar month of wallet activity
func (s *WalletServiceImpl) MonthlySummary(ctx context.Context, userID primitive.ObjectID, year, month int) (*models.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	transactions, err := s.transactionRepo.FindByUserIDAndPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{
		Year:             year,
		Month:            month,
		TransactionCount: len(transactions),
	}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionCredit:
			summary.TotalCredits = addMoney(summary.TotalCredits, t.Amount)
		case models.TransactionDonation:
			summary.TotalDonations = addMoney(summary.TotalDonations, t.Amount)
		default:
			summary.TotalDebits = addMoney(summary.TotalDebits, t.Amount)
		}
	}
	summary.NetChange = subMoney(summary.TotalCredits, addMoney(summary.TotalDebits, summary.TotalDonations))
	return summary, nil
}

// addMoney and subMoney keep stored balances quantized to cents.
func addMoney(a, b float64) float64 {
	return round2(decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)))
}

func subMoney(a, b float64) float64 {
	return round2(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)))
}
