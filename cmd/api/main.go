package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/handler"
	"bookstore/internal/metrics"
	"bookstore/internal/service"
	"bookstore/internal/store"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type application struct {
	config       *config.Config
	logger       *log.Logger
	db           *sql.DB
	redisClient  *redis.Client
	adminService *service.AdminService
	server       *http.Server
	shutdownChan chan struct{}
	sweeperDone  chan struct{}
}

func main() {
	logger := log.New(os.Stdout, "", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := store.ConnectDB(cfg.DBDriver, cfg.DBDataSourceName)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Printf("Error closing database: %v", err)
		}
	}()

	if err := store.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Printf("Error closing Redis client: %v", err)
		}
	}()

	dbStore := store.NewDBStore(db)
	sessionStore := store.NewSessionStore(redisClient, cfg.SessionTTL)

	authService := service.NewAuthService(logger, dbStore, sessionStore, cfg.BcryptCost)
	cartService := service.NewCartService(logger, dbStore)
	catalogService := service.NewCatalogService(logger, dbStore)
	customerService := service.NewCustomerService(logger, dbStore, cfg.BcryptCost)
	adminService := service.NewAdminService(logger, dbStore)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	app := &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		redisClient:  redisClient,
		adminService: adminService,
		shutdownChan: make(chan struct{}),
		sweeperDone:  make(chan struct{}),
	}

	go app.runLowStockSweeper()

	mw := handler.NewAuthMiddleware(logger, authService)
	mux := handler.Routes(handler.Handlers{
		Auth:     handler.NewAuthHandler(logger, authService),
		Books:    handler.NewBookHandler(logger, catalogService),
		Cart:     handler.NewCartHandler(logger, cartService),
		Customer: handler.NewCustomerHandler(logger, customerService),
		Admin:    handler.NewAdminHandler(logger, adminService),
		Mw:       mw,
	})
	mux.HandleFunc("GET /healthz", app.healthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     logger,
	}

	app.serve()
}

func (app *application) serve() {
	app.logger.Printf("Starting server on %s", app.server.Addr)

	errChan := make(chan error)
	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		app.logger.Fatalf("Server error: %v", err)
	case sig := <-quit:
		app.logger.Printf("Received signal %s. Shutting down server...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(app.shutdownChan)
	select {
	case <-app.sweeperDone:
		app.logger.Println("Low stock sweeper stopped.")
	case <-time.After(10 * time.Second):
		app.logger.Println("Low stock sweeper did not stop in time.")
	}

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Printf("Graceful server shutdown failed: %v", err)
	} else {
		app.logger.Println("Server gracefully stopped.")
	}

	app.logger.Println("Application shut down complete.")
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Printf("Health check: database unreachable: %v", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := app.redisClient.Ping(ctx).Err(); err != nil {
		app.logger.Printf("Health check: redis unreachable: %v", err)
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// runLowStockSweeper periodically logs books that have fallen below their
// reorder threshold so operators can raise publisher orders.
func (app *application) runLowStockSweeper() {
	defer close(app.sweeperDone)

	interval := app.config.LowStockSweepTime
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.logger.Printf("Low stock sweeper started. Will run every %s.", interval)

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		books, err := app.adminService.LowStockBooks(ctx)
		if err != nil {
			app.logger.Printf("Sweeper: failed to list low stock books: %v", err)
			return
		}
		for _, b := range books {
			app.logger.Printf("Sweeper: %q (%s) below threshold: %d in stock, threshold %d",
				b.Title, b.ISBN, b.QuantityInStock, b.ThresholdQuantity)
		}
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-app.shutdownChan:
			app.logger.Println("Sweeper: received shutdown signal. Stopping...")
			return
		}
	}
}
