package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/config"
	"github.com/tradeloop/marketplace-api/internal/database"
	"github.com/tradeloop/marketplace-api/internal/handler"
	"github.com/tradeloop/marketplace-api/internal/queue"
	"github.com/tradeloop/marketplace-api/internal/repository"
	"github.com/tradeloop/marketplace-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	products := repository.NewProductRepo(db)

	svc := auth.NewService(users, cfg.BcryptCost)
	codec := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(svc, codec),
		Profiles:  handler.NewProfileHandler(profiles),
		Products:  handler.NewProductHandler(products),
		Codec:     codec,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	// Drains account.created into the signup audit log. Reconnects on its
	// own; a missing broker only costs the audit trail.
	go func() {
		if err := queue.StartAccountConsumer(); err != nil {
			log.Printf("account consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
