package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erp/cashledger/internal/infrastructure/config"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the PostgreSQL handle shared by every repository
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// DatabaseOption adjusts the GORM config before the connection opens
type DatabaseOption func(*gorm.Config)

// WithGormLogger installs l, usually a logger.GormLogger
func WithGormLogger(l logger.Interface) DatabaseOption {
	return func(c *gorm.Config) { c.Logger = l }
}

// NewDatabase connects to PostgreSQL, sizes the pool and verifies the
// connection. Writes open their own transactions through the transaction
// scope, so GORM's implicit per-statement transaction is off.
func NewDatabase(cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	d := &Database{DB: db, sql: sqlDB}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// NewDatabaseFromGorm wraps an already opened handle
func NewDatabaseFromGorm(db *gorm.DB) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	return &Database{DB: db, sql: sqlDB}, nil
}

// Ping checks the connection; /health calls it on every probe
func (d *Database) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Stats reports connection pool usage
func (d *Database) Stats() sql.DBStats {
	return d.sql.Stats()
}

// Close releases the pool
func (d *Database) Close() error {
	return d.sql.Close()
}

// LedgerModels lists the persistence models, referenced tables first
func LedgerModels() []any {
	return []any{
		&models.OperatorModel{},
		&models.CashRegisterModel{},
		&models.ShiftModel{},
		&models.MovementModel{},
		&models.DiscrepancyRecordModel{},
		&models.SalaryAdvanceModel{},
		&models.OutboxEntryModel{},
	}
}

// AutoMigrate builds the schema from the models. Deployed databases are
// migrated from migrations/ instead; tests and the SQLite store use this.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(LedgerModels()...); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}
