package services

import (
	"context"
	"fmt"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"github.com/powersave-cy/powersave-backend/pkg/meter"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SessionServiceImpl implements SessionService
var _ SessionService = (*SessionServiceImpl)(nil)

// SessionServiceImpl drives the saving-session lifecycle:
// SCHEDULED -> IN_PROGRESS -> COMPLETED/FAILED, with CANCELLED reachable
// before completion. Completion is the single point where the wallet and
// points balances are rewarded, and it happens at most once per session.
type SessionServiceImpl struct {
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
	meter       *meter.Client
	baseline    *BaselineService
	calculator  *SavingsCalculator
	wallet      *WalletServiceImpl
	points      *PointsServiceImpl
	locks       *UserLocker
	cfg         config.SessionConfig
}

// NewSessionService creates a new SessionServiceImpl
func NewSessionService(
	sessionRepo repositories.SessionRepository,
	userRepo repositories.UserRepository,
	meterClient *meter.Client,
	baseline *BaselineService,
	calculator *SavingsCalculator,
	wallet *WalletServiceImpl,
	points *PointsServiceImpl,
	locks *UserLocker,
	cfg config.SessionConfig,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		meter:       meterClient,
		baseline:    baseline,
		calculator:  calculator,
		wallet:      wallet,
		points:      points,
		locks:       locks,
		cfg:         cfg,
	}
}

// Schedule creates a new SCHEDULED session for a future time window
func (s *SessionServiceImpl) Schedule(ctx context.Context, userID primitive.ObjectID, scheduledStart time.Time, durationHours int, allocationType string) (*models.Session, error) {
	if durationHours <= 0 || durationHours > 24 {
		return nil, models.ErrInvalidSchedule
	}
	if !scheduledStart.After(time.Now()) {
		return nil, models.ErrInvalidSchedule
	}

	switch allocationType {
	case "":
		allocationType = models.AllocationWasteWallet
	case models.AllocationWasteWallet, models.AllocationSolidarityFund:
	default:
		return nil, models.ErrInvalidSchedule
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:         userID,
		Status:         models.SessionScheduled,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledStart.Add(time.Duration(durationHours) * time.Hour),
		DurationHours:  durationHours,
		AllocationType: allocationType,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("session scheduled", "sessionId", session.ID.Hex(), "userId", userID.Hex(),
		"start", scheduledStart, "durationHours", durationHours)
	return session, nil
}

// Start transitions a SCHEDULED session to IN_PROGRESS and pins the
// baseline for the session window. A baseline that cannot be computed or
// fails validation is recorded as zero with the UNAVAILABLE method, which
// makes the session complete with zero savings rather than block.
func (s *SessionServiceImpl) Start(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	// Re-read under the lock; a concurrent transition may have won.
	session, err = s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionScheduled {
		return nil, fmt.Errorf("%w: cannot start a %s session", models.ErrInvalidTransition, session.Status)
	}

	baselineKWh, method := s.computeBaseline(ctx, session)

	now := time.Now()
	session.Status = models.SessionInProgress
	session.ActualStart = &now
	session.BaselineKWh = baselineKWh
	session.BaselineMethod = method
	session.IsDoublePointsDay = isDoublePointsDay(session.ScheduledStart)

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("session started", "sessionId", session.ID.Hex(), "userId", session.UserID.Hex(),
		"baselineKwh", baselineKWh, "method", method)
	return session, nil
}

// computeBaseline fetches meter history and derives the expected window
// consumption, preferring the ten-day average and falling back to the
// same-weekday average over the past four weeks.
func (s *SessionServiceImpl) computeBaseline(ctx context.Context, session *models.Session) (float64, string) {
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil || user.MeterAccountID == "" {
		return 0, BaselineUnavailable
	}

	// Four extra weeks of history so the weekday fallback has samples.
	history, err := s.meter.GetConsumptionHistory(user.MeterAccountID, session.ScheduledStart, s.cfg.BaselineDays+28)
	if err != nil {
		slog.Warn("meter history unavailable", "sessionId", session.ID.Hex(), "error", err)
		return 0, BaselineUnavailable
	}

	if b, ok := s.baseline.TenDayAverage(history, session.ScheduledStart, session.DurationHours); ok {
		adjusted := s.baseline.SeasonalAdjustment(b, session.ScheduledStart.Month())
		if s.baseline.Validate(adjusted) {
			return round2(decimal.NewFromFloat(adjusted)), BaselineTenDayAverage
		}
	}

	if b, ok := s.baseline.SameWeekdayAverage(history, session.ScheduledStart, session.DurationHours, 4); ok {
		adjusted := s.baseline.SeasonalAdjustment(b, session.ScheduledStart.Month())
		if s.baseline.Validate(adjusted) {
			return round2(decimal.NewFromFloat(adjusted)), BaselineSameWeekday
		}
	}

	return 0, BaselineUnavailable
}

// Complete finishes an IN_PROGRESS session: computes the savings against
// the pinned baseline, credits the wallet and the green points, and stores
// the result on the session. Completing an already-COMPLETED session
// returns the stored result without crediting again.
func (s *SessionServiceImpl) Complete(ctx context.Context, sessionID primitive.ObjectID, actualConsumptionKWh float64) (*models.SessionResult, error) {
	if actualConsumptionKWh < 0 {
		return nil, models.ErrInvalidAmount
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	session, err = s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return s.resultFor(session), nil
	}
	if session.Status != models.SessionInProgress {
		return nil, fmt.Errorf("%w: cannot complete a %s session", models.ErrInvalidTransition, session.Status)
	}

	savings := s.calculator.Calculate(session.BaselineKWh, actualConsumptionKWh, session.IsDoublePointsDay)

	now := time.Now()
	session.Status = models.SessionCompleted
	session.ActualEnd = &now
	session.CompletedAt = &now
	session.ActualKWh = actualConsumptionKWh
	session.SavedKWh = savings.SavedKWh
	session.SavedEUR = savings.SavedEUR
	session.SavedCO2Kg = savings.SavedCO2Kg
	session.GreenPointsEarned = savings.GreenPointsEarned

	// Persist the terminal state before paying out, so a crash between the
	// two cannot double-reward on retry.
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	if err := s.payRewards(ctx, session, savings); err != nil {
		s.revertToInProgress(ctx, session)
		return nil, err
	}

	slog.Info("session completed", "sessionId", session.ID.Hex(), "userId", session.UserID.Hex(),
		"savedKwh", savings.SavedKWh, "savedEur", savings.SavedEUR, "points", savings.GreenPointsEarned)
	return s.resultFor(session), nil
}

// payRewards credits the wallet (or donates to the solidarity fund) and
// the green points balance. Runs under the user lock.
func (s *SessionServiceImpl) payRewards(ctx context.Context, session *models.Session, savings SavingsResult) error {
	if savings.SavedEUR > 0 && session.AllocationType == models.AllocationWasteWallet {
		description := fmt.Sprintf("Savings from session on %s", session.ScheduledStart.Format("2006-01-02"))
		if _, err := s.wallet.creditLocked(ctx, session.UserID, savings.SavedEUR, description, &session.ID); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
	}
	if savings.GreenPointsEarned > 0 {
		if _, err := s.points.creditPointsLocked(ctx, session.UserID, savings.GreenPointsEarned); err != nil {
			return fmt.Errorf("failed to credit green points: %w", err)
		}
	}
	return nil
}

func (s *SessionServiceImpl) revertToInProgress(ctx context.Context, session *models.Session) {
	session.Status = models.SessionInProgress
	session.ActualEnd = nil
	session.CompletedAt = nil
	session.ActualKWh = 0
	session.SavedKWh = 0
	session.SavedEUR = 0
	session.SavedCO2Kg = 0
	session.GreenPointsEarned = 0
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		slog.Error("failed to revert session after reward failure",
			"sessionId", session.ID.Hex(), "error", err)
	}
}

// resultFor builds the completion response from the stored session, so a
// replayed Complete returns exactly what the first call returned.
func (s *SessionServiceImpl) resultFor(session *models.Session) *models.SessionResult {
	var walletCredit float64
	if session.AllocationType == models.AllocationWasteWallet {
		walletCredit = session.SavedEUR
	}
	return &models.SessionResult{
		SessionID:         session.ID,
		Status:            session.Status,
		Message:           "session completed",
		SavedKWh:          session.SavedKWh,
		SavedEUR:          session.SavedEUR,
		SavedCO2Kg:        session.SavedCO2Kg,
		GreenPointsEarned: session.GreenPointsEarned,
		WalletCredit:      walletCredit,
	}
}

// Cancel marks a SCHEDULED or IN_PROGRESS session CANCELLED. No rewards
// are paid and the terminal states cannot be cancelled.
func (s *SessionServiceImpl) Cancel(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	session, err = s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionScheduled && session.Status != models.SessionInProgress {
		return nil, fmt.Errorf("%w: cannot cancel a %s session", models.ErrInvalidTransition, session.Status)
	}

	session.Status = models.SessionCancelled
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("session cancelled", "sessionId", session.ID.Hex(), "userId", session.UserID.Hex())
	return session, nil
}

// Fail marks a SCHEDULED or IN_PROGRESS session FAILED with a reason,
// for example when the meter reported higher consumption than allowed or
// the reading could not be obtained.
func (s *SessionServiceImpl) Fail(ctx context.Context, sessionID primitive.ObjectID, reason string) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	session, err = s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionScheduled && session.Status != models.SessionInProgress {
		return nil, fmt.Errorf("%w: cannot fail a %s session", models.ErrInvalidTransition, session.Status)
	}

	now := time.Now()
	session.Status = models.SessionFailed
	session.ErrorMessage = reason
	session.ActualEnd = &now
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	slog.Warn("session failed", "sessionId", session.ID.Hex(), "userId", session.UserID.Hex(), "reason", reason)
	return session, nil
}

// GetByID returns a single session
func (s *SessionServiceImpl) GetByID(ctx context.Context, sessionID primitive.ObjectID) (*models.Session, error) {
	return s.sessionRepo.FindByID(ctx, sessionID)
}

// ListByUser returns the user's sessions, optionally filtered by status
func (s *SessionServiceImpl) ListByUser(ctx context.Context, userID primitive.ObjectID, status string, limit, offset int) ([]*models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessionRepo.FindByUserID(ctx, userID, status, limit, offset)
}

// Stats aggregates over the user's COMPLETED sessions. The totals always
// equal the sums over the stored sessions because they are recomputed from
// them on every call.
func (s *SessionServiceImpl) Stats(ctx context.Context, userID primitive.ObjectID) (*models.SessionStats, error) {
	sessions, err := s.sessionRepo.FindCompletedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.SessionStats{CompletedSessions: len(sessions)}
	for _, session := range sessions {
		stats.TotalKWhSaved = addMoney(stats.TotalKWhSaved, session.SavedKWh)
		stats.TotalEURSaved = addMoney(stats.TotalEURSaved, session.SavedEUR)
		stats.TotalCO2Saved = addMoney(stats.TotalCO2Saved, session.SavedCO2Kg)
		stats.TotalGreenPoints += session.GreenPointsEarned
	}
	if stats.CompletedSessions > 0 {
		avg := decimal.NewFromFloat(stats.TotalKWhSaved).Div(decimal.NewFromInt(int64(stats.CompletedSessions)))
		stats.AverageKWhPerEntry = round2(avg)
	}
	return stats, nil
}

// isDoublePointsDay reports whether the campaign doubles points for the
// day: weekends, when grid demand peaks highest in Cyprus households.
func isDoublePointsDay(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
