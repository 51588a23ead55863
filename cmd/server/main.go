package main

import (
	"log"
	"net/http"

	_ "placehub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"placehub/internal/auth"
	"placehub/internal/cache"
	"placehub/internal/config"
	"placehub/internal/db"
	"placehub/internal/geocode"
	"placehub/internal/handler"
	"placehub/internal/model"
	"placehub/internal/repository"
	"placehub/internal/router"
	"placehub/internal/service"
	"placehub/internal/storage"
)

// @title Places Directory API
// @version 1.0
// @description REST backend for a places directory: users, geocoded places, image upload, JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models (including the user_places join table)
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Place{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	imageStore, err := storage.NewMinioImageStore(
		cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL,
	)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	geocoder := geocode.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, cfg.GeocoderTimeout)

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("jwt init: %v", err)
	}

	// Initialize repositories
	placeRepo := repository.NewPlaceRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize services
	placeService := service.NewPlaceService(placeRepo, userRepo, geocoder, imageStore, cacheClient)
	userService := service.NewUserService(userRepo, jwtService)

	// Initialize handlers
	placeHandler := handler.NewPlaceHandler(placeService, imageStore)
	userHandler := handler.NewUserHandler(userService, imageStore)

	// Register routes
	router.Register(e, cfg, jwtService, placeHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
