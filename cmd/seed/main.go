package main

import (
	"context"
	stderrors "errors"
	"log"

	"gorm.io/gorm"

	"placehub/internal/auth"
	"placehub/internal/config"
	"placehub/internal/db"
	"placehub/internal/model"
	"placehub/internal/repository"
)

// seedUser bundles a demo user with pre-resolved places so the seeder does
// not depend on the geocoding provider.
type seedUser struct {
	Name     string
	Email    string
	Password string
	Places   []model.Place
}

var demoUsers = []seedUser{
	{
		Name:     "Max Schwarz",
		Email:    "max@example.com",
		Password: "testers123",
		Places: []model.Place{
			{
				Title:       "Empire State Building",
				Description: "One of the most famous sky scrapers in the world.",
				Address:     "20 W 34th St, New York, NY 10001",
				Location:    model.Location{Lat: 40.7484405, Lng: -73.9878531},
				Image:       "images/seed-empire-state.jpeg",
			},
		},
	},
	{
		Name:     "Julie Jones",
		Email:    "julie@example.com",
		Password: "testers123",
		Places: []model.Place{
			{
				Title:       "Eiffel Tower",
				Description: "Wrought-iron lattice tower on the Champ de Mars.",
				Address:     "Champ de Mars, 5 Av. Anatole France, 75007 Paris",
				Location:    model.Location{Lat: 48.8583701, Lng: 2.2944813},
				Image:       "images/seed-eiffel-tower.jpeg",
			},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Place{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	placeRepo := repository.NewPlaceRepository(gormDB)
	ctx := context.Background()

	users, places := 0, 0
	for _, seed := range demoUsers {
		user, err := ensureUser(ctx, userRepo, seed)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", seed.Email, err)
		}
		if user != nil {
			users++
		} else {
			// Already present; skip their places too, the seeder is not an upserter.
			log.Printf("User %s already exists, skipping", seed.Email)
			continue
		}

		for i := range seed.Places {
			place := seed.Places[i]
			place.CreatorID = user.ID
			err := placeRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PlaceRepository) error {
				if err := txRepo.Create(ctx, &place); err != nil {
					return err
				}
				return txRepo.AppendToUserPlaces(ctx, user.ID, &place)
			})
			if err != nil {
				log.Fatalf("Failed to seed place %q: %v", place.Title, err)
			}
			places++
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", users)
	log.Printf("  - Places created: %d", places)
}

// ensureUser creates the demo user unless the email is already registered.
// Returns nil when the user existed before.
func ensureUser(ctx context.Context, repo repository.UserRepository, seed seedUser) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, seed.Email)
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         seed.Name,
		Email:        seed.Email,
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
