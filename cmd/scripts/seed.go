package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/models"
	mongorepo "github.com/powersave-cy/powersave-backend/internal/repositories/mongodb"
	"github.com/powersave-cy/powersave-backend/pkg/mongodb"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the plant catalog and, optionally, a demo household so the
// frontend has data to show on a fresh database.
//
// Usage: go run cmd/scripts/seed.go [-demo]
func main() {
	demo := flag.Bool("demo", false, "also create a demo user with a funded wallet")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	plantRepo := mongorepo.NewPlantCatalogRepository(db)
	for _, entry := range models.DefaultPlantCatalog() {
		e := entry
		e.CreatedAt = time.Now()
		if err := plantRepo.Upsert(ctx, &e); err != nil {
			log.Fatalf("failed to seed plant %s: %v", e.PlantID, err)
		}
		log.Printf("seeded plant %s (%d points)", e.PlantID, e.Cost)
	}

	if !*demo {
		return
	}

	userRepo := mongorepo.NewUserRepository(db)
	accountRepo := mongorepo.NewAccountRepository(db)

	if _, err := userRepo.FindByEmail(ctx, "demo@powersave.cy"); err == nil {
		log.Println("demo user already exists, skipping")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}

	user := &models.User{
		Email:          "demo@powersave.cy",
		Password:       string(hashed),
		FirstName:      "Maria",
		LastName:       "Georgiou",
		PropertyNumber: "12/3456",
		Municipality:   "Nicosia",
		AnnualWasteFee: 200,
		MeterAccountID: "EAC-DEMO-001",
		Role:           "user",
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("failed to create demo user: %v", err)
	}

	account := &models.Account{
		UserID:         user.ID,
		CurrentBalance: 45.50,
		TotalEarned:    45.50,
		PointsBalance:  320,
	}
	if err := accountRepo.Create(ctx, account); err != nil {
		log.Fatalf("failed to create demo account: %v", err)
	}

	log.Printf("seeded demo user %s", user.Email)
}
