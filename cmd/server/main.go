package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/expo-stall-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/expo-stall-booking/internal/database"   // MySQL connection
	"github.com/iliyamo/expo-stall-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/expo-stall-booking/internal/middleware" // rate limiting and caching
	"github.com/iliyamo/expo-stall-booking/internal/queue"      // booking event consumer
	"github.com/iliyamo/expo-stall-booking/internal/repository" // DB repositories
	"github.com/iliyamo/expo-stall-booking/internal/router"     // Internal router setup
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	exhibitions := repository.NewExhibitionRepo(db)
	layouts := repository.NewLayoutRepo(db)
	stallTypes := repository.NewStallTypeRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	exH := handler.NewExhibitionHandler(exhibitions)
	layH := handler.NewLayoutHandler(exhibitions, layouts)
	stH := handler.NewStallTypeHandler(stallTypes)
	adminBkH := handler.NewAdminBookingHandler(exhibitions, bookings)
	browseH := handler.NewBrowseHandler(exhibitions, layouts, bookings)
	bkH := handler.NewBookingHandler(exhibitions, layouts, bookings)

	e := echo.New()

	// Redis-backed rate limiting and response caching.  A nil client
	// (Redis unreachable) degrades both to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Routes
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, exH, layH, stH, adminBkH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, bkH, cfg.JWTSecret)

	// Background consumer appends booking.created events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
