package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/atlaserp/backend/internal/application/inventory"
	salesapp "github.com/atlaserp/backend/internal/application/sales"
	"github.com/atlaserp/backend/internal/infrastructure/auth"
	"github.com/atlaserp/backend/internal/infrastructure/config"
	"github.com/atlaserp/backend/internal/infrastructure/event"
	"github.com/atlaserp/backend/internal/infrastructure/logger"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/internal/interfaces/http/handler"
	"github.com/atlaserp/backend/internal/interfaces/http/middleware"
	"github.com/atlaserp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Atlas Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	inventoryTxScope := persistence.NewGormInventoryTransactionScope(db.DB)
	salesTxScope := persistence.NewGormSalesTransactionScope(db.DB)
	permissionGate := persistence.NewGormPermissionGate(db.DB)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(inventoryapp.NewLowStockAlertHandler(log))

	// Initialize application services
	ledgerService := inventoryapp.NewLedgerService(inventoryTxScope, permissionGate, productRepo, locationRepo, log)
	reservationService := inventoryapp.NewReservationService(inventoryTxScope, permissionGate, log)
	quoteService := salesapp.NewQuoteService(salesTxScope, permissionGate, log)
	orderService := salesapp.NewOrderService(salesTxScope, permissionGate, log)

	// Inject event bus into services that publish events
	ledgerService.SetEventPublisher(eventBus)
	reservationService.SetEventPublisher(eventBus)
	quoteService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Assemble router
	engine, err := router.New(
		router.Config{
			Logger:     log,
			JWTService: jwtService,
			CORS: middleware.CORSConfig{
				AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
				AllowMethods:     cfg.HTTP.CORSAllowMethods,
				AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
				ExposeHeaders:    []string{"X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			},
			TrustedProxies: cfg.HTTP.TrustedProxies,
		},
		router.Handlers{
			System:      handler.NewSystemHandler(db),
			Stock:       handler.NewStockHandler(ledgerService),
			Reservation: handler.NewReservationHandler(reservationService),
			Quote:       handler.NewQuoteHandler(quoteService),
			Order:       handler.NewOrderHandler(orderService),
		},
	)
	if err != nil {
		log.Fatal("Failed to assemble router", zap.Error(err))
	}

	// Background sweep for expired reservations and overdue quotes
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Sweep.Enabled {
		go runSweep(sweepCtx, cfg.Sweep, reservationService, quoteService, log)
		log.Info("Expiry sweep started",
			zap.Duration("check_interval", cfg.Sweep.CheckInterval),
			zap.Int("batch_size", cfg.Sweep.BatchSize),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runSweep periodically releases expired reservations and expires overdue
// quotes until ctx is cancelled.
func runSweep(
	ctx context.Context,
	cfg config.SweepConfig,
	reservations *inventoryapp.ReservationService,
	quotes *salesapp.QuoteService,
	log *zap.Logger,
) {
	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()

			released, err := reservations.ReleaseExpired(ctx, now)
			if err != nil {
				log.Error("Reservation sweep failed", zap.Error(err))
			} else if released > 0 {
				log.Info("Released expired reservations", zap.Int("count", released))
			}

			expired, err := quotes.ExpireOverdue(ctx, now, cfg.BatchSize)
			if err != nil {
				log.Error("Quote sweep failed", zap.Error(err))
			} else if expired > 0 {
				log.Info("Expired overdue quotes", zap.Int("count", expired))
			}
		}
	}
}
