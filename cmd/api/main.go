package main

import (
	stdlog "log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"aqarat/internal/config"
	"aqarat/internal/database"
	"aqarat/internal/middleware"
	"aqarat/internal/modules/auth"
	"aqarat/internal/modules/booking"
	"aqarat/internal/modules/catalog"
	"aqarat/internal/modules/contract"
	"aqarat/internal/modules/offer"
	"aqarat/internal/modules/transfer"
	"aqarat/internal/pkg/cache"
	jwtsvc "aqarat/internal/pkg/jwt"
	"aqarat/internal/pkg/logger"
	"aqarat/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.New(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}

	// The property cache is optional; without REDIS_ADDR reads go straight
	// to the database.
	var propertyCache *cache.Cache
	if cfg.RedisAddr != "" {
		propertyCache = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("property cache enabled")
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	contractService := contract.NewService(db, log)

	bookingService := booking.NewService(bookingRepo, propertyRepo, contractService, log)
	bookingHandler := booking.NewHandler(bookingService)
	contractHandler := contract.NewHandler(contractService)

	catalogService := catalog.NewService(propertyRepo, propertyCache, cfg.CacheTTL, float64(cfg.SimilarAreaTolerancePct), log)
	catalogHandler := catalog.NewHandler(catalogService)

	offerService := offer.NewService(propertyRepo, catalogService)
	offerHandler := offer.NewHandler(offerService)

	transferService := transfer.NewService(db, bookingService, bookingRepo, catalogService, cfg.LatePaymentGraceDays, log)
	transferHandler := transfer.NewHandler(transferService)

	if cfg.AppEnv != "dev" && cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(log))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			offerHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			contractHandler.RegisterRoutes(protected)
			transferHandler.RegisterRoutes(protected)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
		{
			bookingHandler.RegisterAdminRoutes(admin)
			contractHandler.RegisterAdminRoutes(admin)
			transferHandler.RegisterAdminRoutes(admin)
		}
	}

	log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("starting api")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
