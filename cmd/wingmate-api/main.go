package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wingmate/internal/api"
	"wingmate/internal/api/handlers"
	"wingmate/internal/cache"
	"wingmate/internal/config"
	"wingmate/internal/db"
	"wingmate/internal/health"
	"wingmate/internal/logger"
	"wingmate/internal/repository"
	"wingmate/internal/scheduler"
	"wingmate/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load and validate configuration before the logger exists
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	// Redis backs the reputation cache; the service degrades to direct
	// database reads if it is unreachable at startup.
	var reputationCache *cache.ReputationCache
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, reputation caching disabled")
	} else {
		defer redisClient.Close()
		reputationCache = cache.NewReputationCache(redisClient, cfg.Redis.ReputationCacheTTL)
		logger.Info().Msg("redis connected successfully")
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.Pool)
	flightRequestRepo := repository.NewFlightRequestRepository(database.Pool)
	flightOfferRepo := repository.NewFlightOfferRepository(database.Pool)
	pickupRequestRepo := repository.NewPickupRequestRepository(database.Pool)
	pickupOfferRepo := repository.NewPickupOfferRepository(database.Pool)

	// Services
	reputationService := service.NewReputationService(userRepo, reputationCache)
	matchService := service.NewMatchService(
		flightRequestRepo, flightOfferRepo,
		pickupRequestRepo, pickupOfferRepo,
		reputationService, cfg.Matching,
	)
	expiryService := service.NewExpiryService(flightRequestRepo, pickupRequestRepo)

	// Handlers
	flightHandler := handlers.NewFlightHandler(flightRequestRepo, flightOfferRepo)
	pickupHandler := handlers.NewPickupHandler(pickupRequestRepo, pickupOfferRepo)
	matchHandler := handlers.NewMatchHandler(matchService, cfg.Matching.DefaultMaxResults)
	userHandler := handlers.NewUserHandler(userRepo, reputationService)

	cronScheduler := scheduler.NewScheduler(expiryService)
	if err := cronScheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer cronScheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.ErrorHandlerMiddleware())

	healthChecker := health.NewHealthChecker(database, redisClient, cfg.Database.HealthTimeout)
	router.GET("/health", healthChecker.Handler)

	v1 := router.Group("/api/v1")
	{
		flightRequests := v1.Group("/flight-requests")
		{
			flightRequests.POST("", flightHandler.CreateFlightRequest)
			flightRequests.GET("", flightHandler.ListFlightRequests)
			flightRequests.GET("/:id", flightHandler.GetFlightRequest)
			flightRequests.GET("/:id/matches", matchHandler.GetFlightMatches)
			flightRequests.POST("/:id/confirm", matchHandler.ConfirmFlightMatch)
		}

		flightOffers := v1.Group("/flight-offers")
		{
			flightOffers.POST("", flightHandler.CreateFlightOffer)
			flightOffers.GET("", flightHandler.ListFlightOffers)
			flightOffers.GET("/:id", flightHandler.GetFlightOffer)
		}

		pickupRequests := v1.Group("/pickup-requests")
		{
			pickupRequests.POST("", pickupHandler.CreatePickupRequest)
			pickupRequests.GET("", pickupHandler.ListPickupRequests)
			pickupRequests.GET("/:id", pickupHandler.GetPickupRequest)
			pickupRequests.GET("/:id/matches", matchHandler.GetPickupMatches)
			pickupRequests.POST("/:id/confirm", matchHandler.ConfirmPickupMatch)
		}

		pickupOffers := v1.Group("/pickup-offers")
		{
			pickupOffers.POST("", pickupHandler.CreatePickupOffer)
			pickupOffers.GET("", pickupHandler.ListPickupOffers)
			pickupOffers.GET("/:id", pickupHandler.GetPickupOffer)
		}

		v1.POST("/users/:id/ratings", userHandler.AddRating)
	}

	addr := cfg.GetBindAddress()
	// A listener lets us discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("starting server")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
