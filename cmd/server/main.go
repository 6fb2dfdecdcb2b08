package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/apiurl"
	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/config"
	"github.com/segyhp/pledge-desk/internal/handler"
	"github.com/segyhp/pledge-desk/internal/logging"
	"github.com/segyhp/pledge-desk/internal/middleware"
	"github.com/segyhp/pledge-desk/internal/repository"
	"github.com/segyhp/pledge-desk/internal/service"
	"github.com/segyhp/pledge-desk/internal/session"
	"github.com/segyhp/pledge-desk/internal/storage"
	"github.com/segyhp/pledge-desk/internal/upload"
	"github.com/segyhp/pledge-desk/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.Logging)

	// Initialize per-client storage
	store, locker, err := initStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize backend gateways
	backendClient := backend.NewClient(cfg.Backend.Timeout)
	customerRepo := repository.NewCustomerRepository(backendClient)
	pledgeRepo := repository.NewPledgeRepository(backendClient)
	paymentRepo := repository.NewPaymentRepository(backendClient)

	// Initialize services
	validator := service.NewValidator()
	guard := service.NewSubmissionGuard(locker, service.DefaultSubmissionTTL)
	uploader := upload.NewUploader(cfg.UploadEndpoint(), cfg.Upload.Preset, cfg.Upload.Timeout)

	customerService := service.NewCustomerService(customerRepo, validator, guard)
	pledgeService := service.NewPledgeService(pledgeRepo, paymentRepo, customerRepo, uploader, validator, guard, cfg)

	resolver := apiurl.Resolver{
		EnvURL:   cfg.Backend.BaseURL,
		DevPort:  cfg.BackendDevPort(),
		Fallback: cfg.Backend.FallbackURL,
	}
	sessions := session.NewManager(store, resolver, cfg.GetDefaultInterestRate(), cfg.SecureCookies())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	stopCleanup := make(chan struct{})
	go rateLimiter.Cleanup(10*time.Minute, stopCleanup)

	// Setup routes
	router := setupRoutes(
		sessions,
		rateLimiter,
		handler.NewCustomerHandler(customerService, sessions),
		handler.NewPledgeHandler(pledgeService, sessions),
		handler.NewSettingsHandler(sessions),
		handler.NewHealthHandler(store),
	)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(cfg.AllowedOrigins())(response.LoggingMiddleware(router)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.WithFields(log.Fields{
			"addr":    server.Addr,
			"storage": cfg.Storage.Driver,
			"env":     cfg.Server.Env,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	close(stopCleanup)

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// initStorage picks the settings store and submission locker for the
// configured driver. Postgres deployments keep locks in memory.
func initStorage(cfg *config.Config) (storage.Store, storage.Locker, error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}

		return storage.NewRedisStore(client, cfg.Redis.Prefix), storage.NewRedisLocker(client, cfg.Redis.Prefix), nil

	case config.StoragePostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}

		return storage.NewPostgresStore(db), storage.NewMemoryLocker(), nil

	default:
		return storage.NewMemoryStore(), storage.NewMemoryLocker(), nil
	}
}

func setupRoutes(
	sessions *session.Manager,
	rateLimiter *middleware.RateLimiter,
	customerHandler *handler.CustomerHandler,
	pledgeHandler *handler.PledgeHandler,
	settingsHandler *handler.SettingsHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// App routes; /api stays free for a same-origin backend
	app := router.PathPrefix("/app/v1").Subrouter()
	app.Use(sessions.Middleware, rateLimiter.Middleware)

	customerHandler.Register(app)
	pledgeHandler.Register(app)
	settingsHandler.Register(app)

	return router
}
