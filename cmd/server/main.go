package main // Entry point package

import (
	"context"
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/shoply/internal/config"
	"github.com/iliyamo/shoply/internal/database"
	"github.com/iliyamo/shoply/internal/handler"
	"github.com/iliyamo/shoply/internal/mailer"
	"github.com/iliyamo/shoply/internal/middleware"
	"github.com/iliyamo/shoply/internal/queue"
	"github.com/iliyamo/shoply/internal/repository"
	"github.com/iliyamo/shoply/internal/router"
	"github.com/iliyamo/shoply/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middlewares degrade to pass-through

	users := repository.NewUserRepo(db)
	tokens := repository.NewResetTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	products := repository.NewProductRepo(db)

	mail := mailer.NewSMTPMailer(config.LoadSMTPConfig())
	authSvc := service.NewAuthService(users)
	resetSvc := service.NewResetService(users, tokens, mail, cfg.BaseURL, cfg.ResetTTLMin, cfg.BcryptCost)

	e := echo.New()
	deps := router.Deps{
		Auth:    handler.NewAuthHandler(cfg, users, authSvc, resetSvc),
		Profile: handler.NewProfileHandler(profiles),
		Product: handler.NewProductHandler(products),
		Secret:  cfg.JWTSecret,
		Limiter: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:   middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}
	router.Apply(e, cfg, deps)

	// Contact-form consumer; reconnects on its own when the broker drops.
	go func() {
		if err := queue.StartContactConsumer(); err != nil {
			log.Printf("queue: consumer stopped: %v", err)
		}
	}()

	// Hourly sweep of expired reset tokens. Consumption already rejects
	// expired rows, so this only keeps the table small.
	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := tokens.DeleteExpired(ctx); err != nil {
				log.Printf("reset tokens: sweep failed: %v", err)
			}
			cancel()
			time.Sleep(time.Hour)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
