package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/powersave-cy/powersave-backend/api/routes"
	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/handlers"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	memoryrepo "github.com/powersave-cy/powersave-backend/internal/repositories/memory"
	mongorepo "github.com/powersave-cy/powersave-backend/internal/repositories/mongodb"
	"github.com/powersave-cy/powersave-backend/internal/services"
	"github.com/powersave-cy/powersave-backend/pkg/meter"
	"github.com/powersave-cy/powersave-backend/pkg/mongodb"
	"github.com/powersave-cy/powersave-backend/pkg/municipality"
	"golang.org/x/exp/slog"
)

// repoSet bundles the repository implementations behind their interfaces
// so the service wiring is identical for every storage driver.
type repoSet struct {
	users        repositories.UserRepository
	accounts     repositories.AccountRepository
	transactions repositories.TransactionRepository
	sessions     repositories.SessionRepository
	gardens      repositories.GardenRepository
	plantCatalog repositories.PlantCatalogRepository
}

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	repos, cleanup, err := buildRepositories(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	meterClient := meter.NewClient(cfg.Meter.BaseURL, cfg.Meter.APIKey, cfg.Meter.MockAPI).
		WithPeakHours(cfg.Session.PeakHoursStart, cfg.Session.PeakHoursEnd)
	municipalityClient := municipality.NewClient(cfg.Municipality.BaseURL, cfg.Municipality.APIKey, cfg.Municipality.MockAPI)

	// One lock domain for the whole economy: wallet, points, sessions and
	// garden operations for a user never interleave.
	locks := services.NewUserLocker()
	calculator := services.NewSavingsCalculator(cfg.Pricing)
	baseline := services.NewBaselineService(cfg.Session)

	walletService := services.NewWalletService(repos.accounts, repos.transactions, repos.users,
		municipalityClient, calculator, locks, cfg.Wallet.DefaultAnnualWasteFee)
	pointsService := services.NewPointsService(repos.accounts, locks)
	sessionService := services.NewSessionService(repos.sessions, repos.users, meterClient,
		baseline, calculator, walletService, pointsService, locks, cfg.Session)
	gardenService := services.NewGardenService(repos.gardens, repos.plantCatalog,
		pointsService, locks, cfg.Garden.GridSize)
	authService := services.NewAuthService(repos.users, repos.accounts, municipalityClient, cfg.JWT)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := gardenService.EnsureDefaultCatalog(seedCtx); err != nil {
		slog.Error("failed to seed plant catalog", "error", err)
		cancelSeed()
		os.Exit(1)
	}
	cancelSeed()

	router := routes.SetupRouter(cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewWalletHandler(walletService),
		handlers.NewSessionHandler(sessionService, cfg.Session.DefaultDurationHours),
		handlers.NewGardenHandler(gardenService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server exited")
}

// buildRepositories selects the storage backend. The memory driver runs
// the full API without a database, which is how the demo environment and
// local frontend development operate.
func buildRepositories(cfg *config.Config) (*repoSet, func(), error) {
	if cfg.Storage.Driver == "memory" {
		store := memoryrepo.NewStore()
		return &repoSet{
			users:        store.Users(),
			accounts:     store.Accounts(),
			transactions: store.Transactions(),
			sessions:     store.Sessions(),
			gardens:      store.Gardens(),
			plantCatalog: store.PlantCatalog(),
		}, func() {}, nil
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		return nil, nil, err
	}
	db := mongoClient.Database(cfg.MongoDB.Database)

	cleanup := func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}
	return &repoSet{
		users:        mongorepo.NewUserRepository(db),
		accounts:     mongorepo.NewAccountRepository(db),
		transactions: mongorepo.NewTransactionRepository(db),
		sessions:     mongorepo.NewSessionRepository(db),
		gardens:      mongorepo.NewGardenRepository(db),
		plantCatalog: mongorepo.NewPlantCatalogRepository(db),
	}, cleanup, nil
}

// setupLogger installs the process-wide structured logger
func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
