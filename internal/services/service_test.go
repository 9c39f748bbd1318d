package services

import (
	"context"
	"testing"

	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories/memory"
	"github.com/powersave-cy/powersave-backend/pkg/meter"
	"github.com/powersave-cy/powersave-backend/pkg/municipality"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full service graph against the in-memory store with
// both external gateways in mock mode.
type testEnv struct {
	ctx     context.Context
	store   *memory.Store
	user    *models.User
	wallet  *WalletServiceImpl
	points  *PointsServiceImpl
	session *SessionServiceImpl
	garden  *GardenServiceImpl
	auth    *AuthServiceImpl
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		KWhToEURRate:           0.30,
		CO2EmissionFactor:      0.7,
		GreenPointsPerKWh:      10,
		DoublePointsMultiplier: 2.0,
	}
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		DefaultDurationHours: 3,
		BaselineDays:         10,
		MinBaselineSamples:   5,
		MaxBaselineKWh:       10.0,
		PeakHoursStart:       17,
		PeakHoursEnd:         20,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	locks := NewUserLocker()
	calculator := NewSavingsCalculator(testPricing())
	baseline := NewBaselineService(testSessionConfig())
	meterClient := meter.NewClient("", "", true)
	municipalityClient := municipality.NewClient("", "", true)

	wallet := NewWalletService(store.Accounts(), store.Transactions(), store.Users(),
		municipalityClient, calculator, locks, 200)
	points := NewPointsService(store.Accounts(), locks)
	session := NewSessionService(store.Sessions(), store.Users(), meterClient,
		baseline, calculator, wallet, points, locks, testSessionConfig())
	garden := NewGardenService(store.Gardens(), store.PlantCatalog(), points, locks, 5)
	auth := NewAuthService(store.Users(), store.Accounts(), municipalityClient,
		config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600})

	ctx := context.Background()
	require.NoError(t, garden.EnsureDefaultCatalog(ctx))

	user := &models.User{
		Email:          "maria@example.com",
		FirstName:      "Maria",
		LastName:       "Georgiou",
		PropertyNumber: "12/3456",
		Municipality:   "Nicosia",
		AnnualWasteFee: 200,
		MeterAccountID: "EAC-001",
		Role:           "user",
	}
	require.NoError(t, store.Users().Create(ctx, user))
	require.NoError(t, store.Accounts().Create(ctx, &models.Account{UserID: user.ID}))

	return &testEnv{
		ctx:     ctx,
		store:   store,
		user:    user,
		wallet:  wallet,
		points:  points,
		session: session,
		garden:  garden,
		auth:    auth,
	}
}

func (e *testEnv) account(t *testing.T) *models.Account {
	t.Helper()
	account, err := e.store.Accounts().FindByUserID(e.ctx, e.user.ID)
	require.NoError(t, err)
	return account
}
