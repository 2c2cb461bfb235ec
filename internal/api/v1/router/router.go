package router

import (
	"context"
	"net/http"
	"strings"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// 1. Open DB connection pool
	dsn := cfg.DBConnectionString
	// In a development environment, ensure SSL is disabled for local testing.
	// In production, the connection string carries the correct SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize repositories & services & handlers
	profileRepo := repository.NewProfileRepo(pool, logger)
	postRepo := repository.NewPostRepo(pool)

	profileSvc := service.NewProfileService(profileRepo, postRepo, logger)
	postSvc := service.NewPostService(postRepo, profileSvc, logger)
	emailSvc := service.NewEmailService(cfg, logger)
	stripeSvc := service.NewStripeService(cfg, service.NewStripeAPI(), profileSvc, profileRepo, emailSvc, logger)
	if !cfg.BillingConfigured() {
		logger.Warn().Msg("Stripe is not configured; billing endpoints will reject requests")
	}

	profileHandler := handler.NewProfileHandler(profileSvc, logger)
	postHandler := handler.NewPostHandler(postSvc, validate, logger)
	billingHandler := handler.NewBillingHandler(stripeSvc, logger)

	// 4. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// 5. Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	profileHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	postHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	billingHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect root-level requests to /v1/{path} for older clients
	mux.HandleFunc("/", redirectLegacy)

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), pool, nil
}

// redirectLegacy forwards pre-/v1 paths to their /v1 equivalents. The 308
// status preserves the request method and body, so legacy POSTs can be
// replayed against the versioned route.
func redirectLegacy(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/v1/") {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusPermanentRedirect)
}
