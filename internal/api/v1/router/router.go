package router

import (
	"context"
	"net/http"

	"clipcraft/internal/api/v1/handler"
	"clipcraft/internal/config"
	"clipcraft/internal/middleware"
	"clipcraft/internal/repository"
	"clipcraft/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the HTTP handler stack and the database pool it is wired to.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	// 1. Open DB connection pool
	pool, err := pgxpool.New(context.Background(), cfg.DBConnectionString)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(pool)
	clipRepo := repository.NewClipRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)

	userSvc := service.NewUserService(userRepo, logger)
	clipSvc := service.NewClipService(clipRepo, logger)
	messageSvc := service.NewMessageService(messageRepo, logger)
	stripeSvc := service.NewStripeService(cfg, userRepo, logger)

	clipHandler := handler.NewClipHandler(clipSvc, userSvc, validate, logger)
	userHandler := handler.NewUserHandler(userSvc, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(stripeSvc, userSvc, logger)
	messageHandler := handler.NewMessageHandler(messageSvc, userSvc, validate, logger)

	// 4. Initialize middleware
	authMw := middleware.AuthMiddleware(cfg.ClerkJWTKey, logger)
	optionalAuthMw := middleware.OptionalAuthMiddleware(cfg.ClerkJWTKey, logger)
	subMw := middleware.RequireSubscription(userSvc, logger)

	// 5. Create ServeMux router with the /api prefix
	apiMux := http.NewServeMux()
	clipHandler.RegisterRoutes(apiMux, authMw, subMw)
	userHandler.RegisterRoutes(apiMux, authMw)
	subscriptionHandler.RegisterRoutes(apiMux, authMw)
	messageHandler.RegisterRoutes(apiMux, optionalAuthMw)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), pool, nil
}
