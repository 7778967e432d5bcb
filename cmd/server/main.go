package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/logger"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/router"
)

func main() {
	cfg, err := config.Load()
	lg := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		lg.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		lg.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		lg.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient(lg) // nil disables caching and rate limiting
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	rooms := repository.NewCachedRoomCatalog(roomRepo, rdb, cfg.RoomCacheTTL)
	discounts := repository.NewDiscountRepo(db)
	bookings := repository.NewBookingRepo(db)
	svc := booking.NewService(
		users,
		rooms,
		discounts,
		bookings,
		queue.NewPublisher(cfg.AMQPURL, lg),
		lg,
		booking.WithNotifyTimeout(cfg.NotifyTimeout),
	)

	consumer := &queue.Consumer{URL: cfg.AMQPURL, Dir: cfg.BookingLogDir, Log: lg}
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Errorf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Logger = lg
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret, limiter)
	router.RegisterPublic(e, handler.NewRoomHandler(rooms, svc), limiter, cache)
	router.RegisterCustomer(e, handler.NewBookingHandler(svc), cfg.JWTSecret, limiter)
	router.RegisterOwner(e,
		handler.NewOwnerHandler(repository.NewHotelRepo(db), roomRepo, discounts, bookings, rooms),
		cfg.JWTSecret, limiter)

	go func() {
		addr := ":" + cfg.Port
		lg.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Errorf("shutdown: %v", err)
	}
	svc.Wait()
}
