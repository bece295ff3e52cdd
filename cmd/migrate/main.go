package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/atlaserp/backend/internal/domain/catalog"
	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/atlaserp/backend/internal/infrastructure/config"
	"github.com/atlaserp/backend/internal/infrastructure/logger"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	log.Info("Running schema migration",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Order matters: referenced tables before referencing ones
	err = db.DB.AutoMigrate(
		&identity.Role{},
		&identity.RolePermission{},
		&identity.UserRole{},
		&catalog.Product{},
		&catalog.Location{},
		&inventory.StockItem{},
		&inventory.StockBatch{},
		&inventory.StockMovement{},
		&inventory.StockReservation{},
		&sales.Quote{},
		&sales.QuoteItem{},
		&sales.Order{},
		&sales.OrderItem{},
	)
	if err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	// NULLS NOT DISTINCT (Postgres 15+) so the nil-location bucket is a
	// single row and usable as an ON CONFLICT arbiter; gorm index tags
	// cannot express this.
	uniqueIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_item_tenant_product_location
			ON stock_items (tenant_id, product_id, location_id) NULLS NOT DISTINCT`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_batch_tenant_product_location_number
			ON stock_batches (tenant_id, product_id, location_id, batch_number) NULLS NOT DISTINCT`,
	}
	for _, stmt := range uniqueIndexes {
		if err := db.DB.Exec(stmt).Error; err != nil {
			log.Fatal("Creating unique index failed", zap.Error(err))
		}
	}

	log.Info("Migration completed successfully")
}
