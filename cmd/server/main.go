package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/showbase/movie-booking/internal/clock"
	"github.com/showbase/movie-booking/internal/config"
	"github.com/showbase/movie-booking/internal/database"
	"github.com/showbase/movie-booking/internal/engine"
	"github.com/showbase/movie-booking/internal/handler"
	"github.com/showbase/movie-booking/internal/middleware"
	"github.com/showbase/movie-booking/internal/queue"
	"github.com/showbase/movie-booking/internal/repository"
	"github.com/showbase/movie-booking/internal/router"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	// Stores and engines.
	scheduleRepo := repository.NewScheduleRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	reportRepo := repository.NewReportRepo(db)

	scheduler := engine.NewScheduleManager(scheduleRepo)
	inventory := engine.NewSeatInventory(inventoryRepo)
	bookings := engine.NewBookingEngine(bookingRepo, clock.NewSystem())

	// Handlers.
	setupH := &handler.SetupHandler{
		Venues:   repository.NewVenueRepo(db),
		Theatres: repository.NewTheatreRepo(db),
		Movies:   repository.NewMovieRepo(db),
	}
	inventoryH := &handler.InventoryHandler{Inventory: inventory, Seats: inventoryRepo}
	scheduleH := &handler.ScheduleHandler{Manager: scheduler, Showtimes: scheduleRepo}
	bookingH := &handler.BookingHandler{Engine: bookings, Store: bookingRepo, PublishEvents: true}
	reportH := &handler.ReportHandler{Reports: reportRepo}

	// Redis is optional; a nil client disables the cache and rate limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	rateLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	responseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterSetup(e, setupH, inventoryH, scheduleH)
	router.RegisterBooking(e, bookingH, rateLimiter)
	router.RegisterReporting(e, reportH, responseCache)

	go queue.StartTicketConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
