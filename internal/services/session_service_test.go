package services

import (
	"testing"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureStart() time.Time {
	return time.Now().Add(24 * time.Hour).Truncate(time.Hour)
}

func TestSessionSchedule(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates a SCHEDULED session", func(t *testing.T) {
		start := futureStart()
		session, err := env.session.Schedule(env.ctx, env.user.ID, start, 3, "")
		require.NoError(t, err)

		assert.Equal(t, models.SessionScheduled, session.Status)
		assert.Equal(t, 3, session.DurationHours)
		assert.Equal(t, models.AllocationWasteWallet, session.AllocationType)
		assert.Equal(t, start.Add(3*time.Hour), session.ScheduledEnd)
	})

	t.Run("rejects a zero duration", func(t *testing.T) {
		_, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 0, "")
		assert.ErrorIs(t, err, models.ErrInvalidSchedule)
	})

	t.Run("rejects a negative duration", func(t *testing.T) {
		_, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), -5, "")
		assert.ErrorIs(t, err, models.ErrInvalidSchedule)
	})

	t.Run("rejects a start in the past", func(t *testing.T) {
		_, err := env.session.Schedule(env.ctx, env.user.ID, time.Now().Add(-time.Hour), 3, "")
		assert.ErrorIs(t, err, models.ErrInvalidSchedule)
	})

	t.Run("rejects an unknown allocation type", func(t *testing.T) {
		_, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "LOTTERY")
		assert.ErrorIs(t, err, models.ErrInvalidSchedule)
	})

	t.Run("rejects a duration above one day", func(t *testing.T) {
		_, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 25, "")
		assert.ErrorIs(t, err, models.ErrInvalidSchedule)
	})
}

func TestSessionStartPinsBaseline(t *testing.T) {
	env := newTestEnv(t)

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)

	started, err := env.session.Start(env.ctx, scheduled.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionInProgress, started.Status)
	assert.NotNil(t, started.ActualStart)
	assert.Greater(t, started.BaselineKWh, 0.0)
	assert.Equal(t, BaselineTenDayAverage, started.BaselineMethod)

	t.Run("starting twice is an invalid transition", func(t *testing.T) {
		_, err := env.session.Start(env.ctx, scheduled.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})
}

func TestSessionStartWithoutMeterAccount(t *testing.T) {
	env := newTestEnv(t)

	env.user.MeterAccountID = ""
	require.NoError(t, env.store.Users().Update(env.ctx, env.user))

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)

	started, err := env.session.Start(env.ctx, scheduled.ID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, started.BaselineKWh)
	assert.Equal(t, BaselineUnavailable, started.BaselineMethod)
}

func TestSessionCompletePaysRewardsOnce(t *testing.T) {
	env := newTestEnv(t)

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)
	started, err := env.session.Start(env.ctx, scheduled.ID)
	require.NoError(t, err)

	result, err := env.session.Complete(env.ctx, started.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, result.Status)
	assert.Equal(t, started.BaselineKWh, result.SavedKWh)
	assert.Greater(t, result.SavedEUR, 0.0)
	assert.Greater(t, result.GreenPointsEarned, 0)
	assert.Equal(t, result.SavedEUR, result.WalletCredit)

	account := env.account(t)
	assert.Equal(t, result.WalletCredit, account.CurrentBalance)
	assert.Equal(t, result.GreenPointsEarned, account.PointsBalance)
	assert.Equal(t, 1, account.SessionsContributed)

	t.Run("second completion returns the stored result without crediting", func(t *testing.T) {
		again, err := env.session.Complete(env.ctx, started.ID, 99)
		require.NoError(t, err)

		// The replay is indistinguishable from the first response.
		assert.Equal(t, result, again)

		account := env.account(t)
		assert.Equal(t, result.WalletCredit, account.CurrentBalance)
		assert.Equal(t, result.GreenPointsEarned, account.PointsBalance)
		assert.Equal(t, 1, account.SessionsContributed)
	})

	t.Run("one ledger entry references the session", func(t *testing.T) {
		transactions, err := env.wallet.ListTransactions(env.ctx, env.user.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		require.NotNil(t, transactions[0].SessionID)
		assert.Equal(t, started.ID, *transactions[0].SessionID)
	})
}

func TestSessionCompleteAboveBaselineYieldsZero(t *testing.T) {
	env := newTestEnv(t)

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)
	started, err := env.session.Start(env.ctx, scheduled.ID)
	require.NoError(t, err)

	result, err := env.session.Complete(env.ctx, started.ID, started.BaselineKWh+1)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.SavedKWh)
	assert.Equal(t, 0, result.GreenPointsEarned)
	assert.Equal(t, 0.0, env.account(t).CurrentBalance)
	assert.Equal(t, 0, env.account(t).PointsBalance)
}

func TestSessionSolidarityFundAllocationSkipsWallet(t *testing.T) {
	env := newTestEnv(t)

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, models.AllocationSolidarityFund)
	require.NoError(t, err)
	started, err := env.session.Start(env.ctx, scheduled.ID)
	require.NoError(t, err)

	result, err := env.session.Complete(env.ctx, started.ID, 0)
	require.NoError(t, err)

	assert.Greater(t, result.SavedEUR, 0.0)
	assert.Equal(t, 0.0, result.WalletCredit)
	assert.Equal(t, 0.0, env.account(t).CurrentBalance)
	// Points are personal and paid regardless of the allocation.
	assert.Equal(t, result.GreenPointsEarned, env.account(t).PointsBalance)
}

func TestSessionInvalidTransitions(t *testing.T) {
	env := newTestEnv(t)

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)

	t.Run("cannot complete a SCHEDULED session", func(t *testing.T) {
		_, err := env.session.Complete(env.ctx, scheduled.ID, 1)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("negative consumption is rejected", func(t *testing.T) {
		_, err := env.session.Complete(env.ctx, scheduled.ID, -1)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("cancel then start is rejected", func(t *testing.T) {
		cancelled, err := env.session.Cancel(env.ctx, scheduled.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCancelled, cancelled.Status)

		_, err = env.session.Start(env.ctx, scheduled.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})
}

func TestSessionFail(t *testing.T) {
	env := newTestEnv(t)

	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)
	started, err := env.session.Start(env.ctx, scheduled.ID)
	require.NoError(t, err)

	failed, err := env.session.Fail(env.ctx, started.ID, "meter reading unavailable")
	require.NoError(t, err)

	assert.Equal(t, models.SessionFailed, failed.Status)
	assert.Equal(t, "meter reading unavailable", failed.ErrorMessage)

	_, err = env.session.Complete(env.ctx, started.ID, 1)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, 0.0, env.account(t).CurrentBalance)
}

func TestSessionStatsEqualStoredSums(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart().Add(time.Duration(i)*time.Hour), 3, "")
		require.NoError(t, err)
		started, err := env.session.Start(env.ctx, scheduled.ID)
		require.NoError(t, err)
		_, err = env.session.Complete(env.ctx, started.ID, 0)
		require.NoError(t, err)
	}
	// A cancelled session must not contribute.
	scheduled, err := env.session.Schedule(env.ctx, env.user.ID, futureStart().Add(12*time.Hour), 3, "")
	require.NoError(t, err)
	_, err = env.session.Cancel(env.ctx, scheduled.ID)
	require.NoError(t, err)

	stats, err := env.session.Stats(env.ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CompletedSessions)

	completed, err := env.store.Sessions().FindCompletedByUserID(env.ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, completed, 3)

	var kwh, eur, co2 float64
	var points int
	for _, s := range completed {
		kwh = addMoney(kwh, s.SavedKWh)
		eur = addMoney(eur, s.SavedEUR)
		co2 = addMoney(co2, s.SavedCO2Kg)
		points += s.GreenPointsEarned
	}
	assert.Equal(t, kwh, stats.TotalKWhSaved)
	assert.Equal(t, eur, stats.TotalEURSaved)
	assert.Equal(t, co2, stats.TotalCO2Saved)
	assert.Equal(t, points, stats.TotalGreenPoints)
	assert.Greater(t, stats.AverageKWhPerEntry, 0.0)
}

func TestSessionListByUserFiltersStatus(t *testing.T) {
	env := newTestEnv(t)

	s1, err := env.session.Schedule(env.ctx, env.user.ID, futureStart(), 3, "")
	require.NoError(t, err)
	_, err = env.session.Schedule(env.ctx, env.user.ID, futureStart().Add(2*time.Hour), 3, "")
	require.NoError(t, err)
	_, err = env.session.Start(env.ctx, s1.ID)
	require.NoError(t, err)

	all, err := env.session.ListByUser(env.ctx, env.user.ID, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inProgress, err := env.session.ListByUser(env.ctx, env.user.ID, models.SessionInProgress, 50, 0)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, s1.ID, inProgress[0].ID)
}
