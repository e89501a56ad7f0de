// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
	"github.com/gymmatch/gymmatch-backend/internal/common/database"
	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
	"github.com/gymmatch/gymmatch-backend/internal/config"
	"github.com/gymmatch/gymmatch-backend/internal/gyms"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
	"github.com/gymmatch/gymmatch-backend/internal/matching"
	"github.com/gymmatch/gymmatch-backend/internal/messaging"
	"github.com/gymmatch/gymmatch-backend/internal/users"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	logging.Info().Msg("Starting GymMatch API")
	if envErr != nil {
		logging.Warn().Err(envErr).Msg("Step 1: no .env file found, using environment variables")
	} else {
		logging.Info().Msg("Step 1: .env file loaded")
	}

	// 3. Validate configuration
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Step 3: configuration validation failed")
	}
	logging.Info().Str("environment", cfg.Environment).Msg("Step 3: configuration is valid")

	ctx := context.Background()

	// 4. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Step 4: failed to connect to PostgreSQL")
	}
	defer db.Close()
	logging.Info().Msg("Step 4: connected to PostgreSQL")

	// 5. Connect to Redis (optional)
	redisClient := connectRedis(ctx, cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 6. Run database migrations
	if cfg.RunMigrations {
		if err := database.Migrate(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("Step 6: failed to run migrations")
		}
		logging.Info().Msg("Step 6: database migrations completed")
	} else {
		logging.Info().Msg("Step 6: migrations disabled, skipping")
	}

	// 7. Users and authentication
	usersRepo := users.NewPostgresRepository(db)
	usersService := users.NewService(usersRepo, users.Limits{
		MaxFitnessGoals:   cfg.MaxFitnessGoals,
		MaxGymPreferences: cfg.MaxGymPreferences,
	})
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret, usersService)
	logging.Info().Msg("Step 7: users and authentication initialized")

	// 8. Gyms and recommendations
	gymsRepo := gyms.NewPostgresRepository(db)
	if redisClient != nil {
		gymsRepo = gyms.NewCachedRepository(gymsRepo, redisClient, cfg.GymCacheTTL)
	}
	gymsService := gyms.NewService(gymsRepo, usersService, cfg.RecommendationLimit)
	logging.Info().Bool("cached", redisClient != nil).Msg("Step 8: gyms initialized")

	// 9. Matching
	locker := matching.NewLocalLocker()
	if redisClient != nil {
		locker = matching.NewRedisLocker(redisClient, cfg.MatchLockTTL)
	}
	matchingService := matching.NewService(matching.NewPostgresRepository(db), usersRepo, locker)
	logging.Info().Bool("distributed_lock", redisClient != nil).Msg("Step 9: matching initialized")

	// 10. Messaging and realtime gateway
	messagingService := messaging.NewService(messaging.NewPostgresRepository(db), matchingService, cfg.MaxMessageLength)
	hub := messaging.NewHub()
	gateway := messaging.NewGateway(hub, messagingService, messaging.GatewayConfig{
		EventsPerSecond: cfg.WSEventsPerSecond,
		EventBurst:      cfg.WSEventBurst,
		SendBuffer:      cfg.WSSendBuffer,
	})
	logging.Info().Msg("Step 10: messaging initialized")

	// 11. Routes
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck(db, redisClient, hub)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	users.RegisterRoutes(router, users.NewHandler(usersService), authMiddleware)
	gyms.RegisterRoutes(router, gyms.NewHandler(gymsService), authMiddleware)
	matching.RegisterRoutes(router, matching.NewHandler(matchingService), authMiddleware)
	messaging.RegisterRoutes(router, messaging.NewHandler(messagingService, gateway, cfg.CORSAllowedOrigins), authMiddleware)
	logging.Info().Msg("Step 11: routes registered")

	// Wrapped outside the router so preflight requests and 404s pass through too.
	handler := chainMiddleware(router,
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		accessLogMiddleware,
		chimiddleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		apiOnly(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow)),
	)

	// 12. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by the server.
	hub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logging.Info().Msg("Server exited gracefully")
}

func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		logging.Warn().Msg("Step 5: Redis URL not configured, using in-process locks and no cache")
		return nil
	}
	client, err := database.NewRedisClientFromURL(ctx, url)
	if err != nil {
		logging.Warn().Err(err).Msg("Step 5: Redis unavailable, continuing without Redis")
		return nil
	}
	logging.Info().Msg("Step 5: connected to Redis")
	return client
}

// healthCheck reports dependency status. Redis is optional and never fails the check.
func healthCheck(db *sqlx.DB, redisClient *redis.Client, hub *messaging.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{"database": "ok"}
		if err := db.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = "unreachable"
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unreachable"
			}
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		utils.RespondWithJSON(w, status, map[string]interface{}{
			"status":             state,
			"timestamp":          time.Now().Format(time.RFC3339),
			"uptime":             time.Since(startTime).String(),
			"checks":             checks,
			"realtime_connected": hub.ActiveConnections(),
		})
	}
}

// chainMiddleware applies mws so that the first one is outermost.
func chainMiddleware(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// apiOnly restricts mw to /api paths.
func apiOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLogMiddleware logs one line per request.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}
