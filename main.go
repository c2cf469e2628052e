package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-booking/internal/analytics"
	analytics_api "ms-booking/internal/analytics/api"
	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/booking/booking_api"
	"ms-booking/internal/booking/cache"
	bookingdb "ms-booking/internal/booking/db"
	"ms-booking/internal/clients"
	"ms-booking/internal/config"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/metrics"
	"ms-booking/internal/sse"
	"ms-booking/internal/utils"
)

func connectDatabase(cfg config.DatabaseConfig, logger *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		sqldb.Close()
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func runMigrations(cfg config.DatabaseConfig, logger *logger.Logger) {
	opts := migrations.DefaultOptions()
	opts.MigrationsDir = cfg.MigrationsDir

	runner := migrations.NewRunner(cfg.DSN, opts, logger)
	defer func() {
		if err := runner.Close(); err != nil {
			logger.Warn("MIGRATION", fmt.Sprintf("Failed to close migrator: %v", err))
		}
	}()

	if err := runner.MigrateUp(); err != nil {
		logger.Fatal("MIGRATION", fmt.Sprintf("Failed to run migrations: %v", err))
	}
	logger.Info("MIGRATION", "✅ Database schema is up to date")
}

// connectRedis returns nil when the cache is disabled or unreachable; the service runs without it.
func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *logger.Logger) *redis.Client {
	if !cfg.Enabled {
		logger.Info("REDIS", "Booking cache disabled")
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("REDIS", fmt.Sprintf("Redis unavailable at %s, continuing without cache: %v", cfg.Addr, err))
		redisClient.Close()
		return nil
	}

	logger.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Addr, redisClient.Options().DB))
	return redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Booking Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	log.SetLevel(logger.ParseLevel(cfg.Server.LogLevel))
	ctx := context.Background()

	// --- Persistence ---
	bunDB := connectDatabase(cfg.Database, log)
	defer bunDB.Close()
	if cfg.Database.AutoMigrate {
		runMigrations(cfg.Database, log)
	}

	var store booking.BookingStore = &bookingdb.DB{Bun: bunDB}
	if redisClient := connectRedis(ctx, cfg.Redis, log); redisClient != nil {
		defer redisClient.Close()
		store = cache.NewCachedStore(store, redisClient, cfg.Redis.CacheTTL, log)
		log.Info("REDIS", fmt.Sprintf("Booking cache enabled (ttl %s)", cfg.Redis.CacheTTL))
	}

	// --- Events ---
	emitter := sse.NewBookingEventEmitter()
	events := booking.Publishers{emitter}
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topics.All(), log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}

		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, cfg.Kafka.PublishTimeout, log)
		defer producer.Close()
		events = append(events, producer)
		log.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		log.Info("KAFKA", "Event publishing disabled")
	}

	// --- Downstream services ---
	client := &http.Client{
		Timeout: cfg.Services.HTTPTimeout,
	}
	bookingMetrics := metrics.NewBookingMetrics(nil)

	bookingService := booking.NewBookingService(
		store,
		clients.NewVehicleClient(client, cfg.Services.VehicleURL, log),
		clients.NewWorkshopClient(client, cfg.Services.WorkshopURL, log),
		clients.NewPaymentClient(client, cfg.Services.PaymentURL, log),
		events,
		log,
	)
	bookingService.Metrics = bookingMetrics

	handler := booking_api.NewHandler(bookingService, log)
	sseHandler := booking_api.NewSSEHandler(emitter, log)
	analyticsHandler := analytics_api.NewHandler(analytics.NewService(analytics.NewDB(bunDB)), log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(utils.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(booking_api.RequestLogger(log))
	r.Use(bookingMetrics.Middleware)

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := bunDB.PingContext(r.Context()); err != nil {
			utils.WriteError(w, http.StatusServiceUnavailable, "database unreachable", err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})
	r.Handle("/metrics", promhttp.Handler())

	// --- Booking Routes ---
	r.Group(func(r chi.Router) {
		if cfg.Auth.OIDCIssuer != "" {
			verifier, err := auth.NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuer)
			if err != nil {
				log.Fatal("AUTH", fmt.Sprintf("Failed to initialise OIDC verifier: %v", err))
			}
			r.Use(auth.Middleware(verifier, log))
			log.Info("AUTH", "JWT middleware applied to booking routes")
		} else {
			log.Warn("AUTH", "OIDC_ISSUER not set, booking routes are unauthenticated")
		}

		r.Route("/api/bookings", func(r chi.Router) {
			handler.Routes(r)
			sseHandler.Routes(r)
			analyticsHandler.RegisterRoutes(r)
		})
		log.Info("ROUTER", "Booking routes registered under /api/bookings")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Booking Service shutdown complete")
	}
}
