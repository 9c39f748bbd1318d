package services

import (
	"testing"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletCreditAndDebit(t *testing.T) {
	env := newTestEnv(t)

	t.Run("credit raises balance and appends a ledger entry", func(t *testing.T) {
		tx, err := env.wallet.Credit(env.ctx, env.user.ID, 12.50, "session reward", nil)
		require.NoError(t, err)

		assert.Equal(t, models.TransactionCredit, tx.Type)
		assert.Equal(t, 12.50, tx.Amount)
		assert.Equal(t, 12.50, tx.BalanceAfter)
		assert.NotEmpty(t, tx.Reference)

		account := env.account(t)
		assert.Equal(t, 12.50, account.CurrentBalance)
		assert.Equal(t, 12.50, account.TotalEarned)
	})

	t.Run("debit lowers balance", func(t *testing.T) {
		tx, err := env.wallet.Debit(env.ctx, env.user.ID, 2.50, models.TransactionDebit, "test debit", "")
		require.NoError(t, err)

		assert.Equal(t, 10.0, tx.BalanceAfter)
		assert.Equal(t, 10.0, env.account(t).CurrentBalance)
		assert.Equal(t, 2.50, env.account(t).TotalSpent)
	})

	t.Run("zero and negative amounts are rejected", func(t *testing.T) {
		_, err := env.wallet.Credit(env.ctx, env.user.ID, 0, "bad", nil)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)

		_, err = env.wallet.Debit(env.ctx, env.user.ID, -5, models.TransactionDebit, "bad", "")
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("credit-type strings are not accepted by Debit", func(t *testing.T) {
		_, err := env.wallet.Debit(env.ctx, env.user.ID, 1, models.TransactionCredit, "bad", "")
		assert.Error(t, err)
	})
}

func TestWalletInsufficientFundsLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.Credit(env.ctx, env.user.ID, 5, "seed", nil)
	require.NoError(t, err)

	_, err = env.wallet.Debit(env.ctx, env.user.ID, 9.99, models.TransactionDebit, "too much", "")
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	assert.Equal(t, 5.0, env.account(t).CurrentBalance)

	transactions, err := env.wallet.ListTransactions(env.ctx, env.user.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestWalletLedgerReconstructsBalance(t *testing.T) {
	env := newTestEnv(t)

	amounts := []float64{10, 3.33, 7.25}
	for _, a := range amounts {
		_, err := env.wallet.Credit(env.ctx, env.user.ID, a, "credit", nil)
		require.NoError(t, err)
	}
	_, err := env.wallet.Debit(env.ctx, env.user.ID, 4.58, models.TransactionDebit, "debit", "")
	require.NoError(t, err)
	_, err = env.wallet.Donate(env.ctx, env.user.ID, 2, "fund-1")
	require.NoError(t, err)

	// Replay the ledger oldest-first and check every running balance.
	transactions, err := env.wallet.ListTransactions(env.ctx, env.user.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 5)

	running := 0.0
	for i := len(transactions) - 1; i >= 0; i-- {
		tx := transactions[i]
		if models.IsDebitType(tx.Type) {
			running = subMoney(running, tx.Amount)
		} else {
			running = addMoney(running, tx.Amount)
		}
		assert.Equal(t, running, tx.BalanceAfter, "entry %s", tx.Type)
	}
	assert.Equal(t, running, env.account(t).CurrentBalance)
}

func TestWalletDonate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.Credit(env.ctx, env.user.ID, 20, "seed", nil)
	require.NoError(t, err)

	tx, err := env.wallet.Donate(env.ctx, env.user.ID, 7.50, "energy-solidarity-fund")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionDonation, tx.Type)
	assert.Equal(t, "energy-solidarity-fund", tx.DonationRecipientID)
	assert.Equal(t, 12.50, env.account(t).CurrentBalance)
}

func TestWalletPayMunicipality(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.Credit(env.ctx, env.user.ID, 50, "seed", nil)
	require.NoError(t, err)

	t.Run("successful payment records the debit", func(t *testing.T) {
		tx, err := env.wallet.PayMunicipality(env.ctx, env.user.ID, 30)
		require.NoError(t, err)

		assert.Equal(t, models.TransactionPaymentMunicipality, tx.Type)
		assert.Equal(t, 20.0, env.account(t).CurrentBalance)

		account := env.account(t)
		require.NotNil(t, account.LastPaymentDate)
		assert.Equal(t, 30.0, account.LastPaymentAmount)
	})

	t.Run("payment above the balance is rejected before submission", func(t *testing.T) {
		_, err := env.wallet.PayMunicipality(env.ctx, env.user.ID, 100)
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)
		assert.Equal(t, 20.0, env.account(t).CurrentBalance)
	})
}

func TestWalletCoverage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.Credit(env.ctx, env.user.ID, 180, "seed", nil)
	require.NoError(t, err)

	coverage, err := env.wallet.GetCoverage(env.ctx, env.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 180.0, coverage.CurrentBalance)
	assert.Equal(t, 200.0, coverage.AnnualWasteFee)
	assert.Equal(t, 90.0, coverage.CoveragePercentage)
	assert.Equal(t, 10.0, coverage.MonthsCovered)
	assert.Equal(t, 20.0, coverage.RemainingToCover)

	t.Run("municipal fee overrides a stale stored fee", func(t *testing.T) {
		env.user.AnnualWasteFee = 150
		require.NoError(t, env.store.Users().Update(env.ctx, env.user))

		coverage, err := env.wallet.GetCoverage(env.ctx, env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 200.0, coverage.AnnualWasteFee)
	})

	t.Run("stored fee applies without a registered property", func(t *testing.T) {
		env.user.PropertyNumber = ""
		env.user.AnnualWasteFee = 150
		require.NoError(t, env.store.Users().Update(env.ctx, env.user))

		coverage, err := env.wallet.GetCoverage(env.ctx, env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 150.0, coverage.AnnualWasteFee)
		assert.Equal(t, 100.0, coverage.CoveragePercentage)
		assert.Equal(t, 0.0, coverage.RemainingToCover)
	})
}

func TestWalletMonthlySummary(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.Credit(env.ctx, env.user.ID, 30, "seed", nil)
	require.NoError(t, err)
	_, err = env.wallet.Donate(env.ctx, env.user.ID, 5, "fund-1")
	require.NoError(t, err)
	_, err = env.wallet.Debit(env.ctx, env.user.ID, 10, models.TransactionDebit, "spend", "")
	require.NoError(t, err)

	transactions, err := env.wallet.ListTransactions(env.ctx, env.user.ID, 1, 0)
	require.NoError(t, err)
	now := transactions[0].CreatedAt.UTC()

	summary, err := env.wallet.MonthlySummary(env.ctx, env.user.ID, now.Year(), int(now.Month()))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TransactionCount)
	assert.Equal(t, 30.0, summary.TotalCredits)
	assert.Equal(t, 5.0, summary.TotalDonations)
	assert.Equal(t, 10.0, summary.TotalDebits)
	assert.Equal(t, 15.0, summary.NetChange)

	_, err = env.wallet.MonthlySummary(env.ctx, env.user.ID, now.Year(), 13)
	assert.Error(t, err)
}
