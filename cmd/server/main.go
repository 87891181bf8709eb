package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agrovia/agrocontrol/internal/config"
	"github.com/agrovia/agrocontrol/internal/database"
	"github.com/agrovia/agrocontrol/internal/handler"
	"github.com/agrovia/agrocontrol/internal/middleware"
	"github.com/agrovia/agrocontrol/internal/queue"
	"github.com/agrovia/agrocontrol/internal/repository"
	"github.com/agrovia/agrocontrol/internal/router"
	"github.com/agrovia/agrocontrol/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "agrocontrol").Logger()

	cfg := config.Load()

	db, err := database.Open(database.Options{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	fields := repository.NewFieldRepo(db)
	crops := repository.NewCropRepo(db)
	recs := repository.NewRecommendationRepo(db)
	histories := repository.NewHistoryRepo(db)
	subs := repository.NewSubscriptionRepo(db)
	devices := repository.NewDeviceRepo(db)
	sensors := repository.NewSensorRepo(db)
	readings := repository.NewReadingRepo(db)
	alerts := repository.NewAlertRepo(db)

	// Services.
	userCmd := service.NewUserCommandService(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	userQry := service.NewUserQueryService(users)
	fieldCmd := service.NewFieldCommandService(fields, users)
	fieldQry := service.NewFieldQueryService(fields)
	cropCmd := service.NewCropCommandService(crops, fields, recs, histories)
	cropQry := service.NewCropQueryService(crops, recs, histories)
	subCmd := service.NewSubscriptionCommandService(subs, users)
	subQry := service.NewSubscriptionQueryService(subs)
	devCmd := service.NewDeviceCommandService(devices, crops, sensors, readings, alerts, cfg.TelemetryHardDelete)
	devQry := service.NewDeviceQueryService(devices, sensors, readings, alerts)

	publisher := queue.NewPublisher(cfg.AMQPURL, log)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(userCmd),
		Users:         handler.NewUserHandler(userCmd, userQry),
		Fields:        handler.NewFieldHandler(fieldCmd, fieldQry),
		Crops:         handler.NewCropHandler(cropCmd, cropQry),
		Subscriptions: handler.NewSubscriptionHandler(subCmd, subQry),
		Devices:       handler.NewDeviceHandler(devCmd, devQry),
		Sensors:       handler.NewSensorHandler(devCmd, devQry),
		Readings:      handler.NewReadingHandler(devCmd, devQry),
		Alerts:        handler.NewAlertHandler(devCmd, devQry, publisher),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics())

	// The limiter and cache live inside the route groups, not on the
	// Echo instance: a cache hit replies immediately, so the auth chain
	// must already have run by the time the cache sees the request.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterPublic(e, h.Auth, limiter)
	router.RegisterAPI(e, h, users, cfg.JWTSecret, limiter, cache)

	// Background consumer appends alert events to logs/alerts.log and
	// reconnects on broker outages.
	go func() {
		if err := queue.StartAlertConsumer(cfg.AMQPURL, log); err != nil {
			log.Error().Err(err).Msg("alert consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
