package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mooviebooker/backend/internal/booking"
	"github.com/mooviebooker/backend/internal/catalog"
	"github.com/mooviebooker/backend/internal/config"
	"github.com/mooviebooker/backend/internal/database"
	"github.com/mooviebooker/backend/internal/handler"
	"github.com/mooviebooker/backend/internal/middleware"
	"github.com/mooviebooker/backend/internal/queue"
	"github.com/mooviebooker/backend/internal/repository"
	"github.com/mooviebooker/backend/internal/router"
	queue_publisher "github.com/mooviebooker/backend/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis may be absent; rate limiting and caching then disable themselves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db)

	tmdb := catalog.New(cfg.TMDBBaseURL, cfg.TMDBAPIKey)

	svc := booking.NewService(tmdb, reservations, func(err error) bool {
		return err == repository.ErrReservationNotFound
	})

	authH := handler.NewAuthHandler(cfg, users, tokens)
	moviesH := handler.NewMoviesHandler(tmdb)
	resH := handler.NewReservationHandler(svc, queue_publisher.PublishReservationCreated)

	e := echo.New()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterMovies(e, moviesH, cache)
	router.RegisterReservations(e, resH, cfg.JWTSecret)

	// Background consumer writes reservation events to logs/reservations.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
