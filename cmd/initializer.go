package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/Matesfu/Mela-rent/internal/config"
	"github.com/Matesfu/Mela-rent/internal/handlers"
	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/repositories"
	"github.com/Matesfu/Mela-rent/internal/services"
	"github.com/Matesfu/Mela-rent/utils"
)

// authenticator is what the auth middleware needs from the user service.
type authenticator interface {
	Authenticate(accessToken string) (models.Caller, error)
	Refresh(ctx context.Context, refreshToken string) (models.Tokens, error)
}

type application struct {
	errorLog        *log.Logger
	infoLog         *log.Logger
	auth            authenticator
	userHandler     *handlers.UserHandler
	propertyHandler *handlers.PropertyHandler
	paymentHandler  *handlers.PaymentHandler
	favoriteHandler *handlers.FavoriteHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, errorLog, infoLog *log.Logger) (*application, error) {
	tokenManager, err := utils.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	logger := &serviceLogger{infoLog: infoLog, errorLog: errorLog}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb)
	propertyRepo := repositories.NewPropertyRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)

	// Services
	userService := &services.UserService{
		UserRepo:        userRepo,
		Sessions:        sessionRepo,
		TokenManager:    tokenManager,
		AccessTokenTTL:  cfg.AccessTokenTTL(),
		RefreshTokenTTL: cfg.RefreshTokenTTL(),
		Logger:          logger,
	}
	propertyService := &services.PropertyService{
		Repo:           propertyRepo,
		RequirePayment: cfg.Listing.RequirePayment,
		Logger:         logger,
	}
	paymentService := &services.PaymentService{
		Properties: propertyRepo,
		Payments:   paymentRepo,
		Terms:      cfg.Listing.Terms(),
		Logger:     logger,
	}
	favoriteService := &services.FavoriteService{Repo: favoriteRepo, Properties: propertyRepo, Logger: logger}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		auth:            userService,
		userHandler:     &handlers.UserHandler{Service: userService, ErrorLog: errorLog},
		propertyHandler: &handlers.PropertyHandler{Service: propertyService, ErrorLog: errorLog},
		paymentHandler:  &handlers.PaymentHandler{Service: paymentService, ErrorLog: errorLog},
		favoriteHandler: &handlers.FavoriteHandler{Service: favoriteService, ErrorLog: errorLog},
	}, nil
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(35)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Println("Successfully connected to database")
	return db, nil
}

func openRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}
