// internal/database/connection.go
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/imob-backoffice/internal/config"
	"github.com/javajoker/imob-backoffice/internal/models"
)

// Initialize opens the process-wide pool. The caller owns it and must Close
// it on shutdown.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         newLogger(cfg.LogLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if cfg.IsSQLite() {
		dialector = sqlite.Open(cfg.DSN())
	} else {
		dialector = postgres.Open(cfg.DSN())
	}

	// Connect to database
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool. An in-memory SQLite database lives and dies
	// with its connection, so it is pinned to one.
	if cfg.IsSQLite() {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", driverName(cfg.Driver)).Info("Database connection established")
	return db, nil
}

// OpenInMemory returns a migrated, empty SQLite database. Tests use it to run
// the real queries without a server.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Initialize(config.DatabaseConfig{Driver: config.DriverSQLite, Database: ":memory:", LogLevel: "silent"})
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		Close(db)
		return nil, err
	}
	return db, nil
}

func driverName(driver string) string {
	if driver == "" {
		return config.DriverPostgres
	}
	return driver
}

func newLogger(level string) logger.Interface {
	logLevel := logger.Warn
	switch strings.ToLower(level) {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "info":
		logLevel = logger.Info
	}

	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Debug("Running database migrations")

	err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Employee{},
		&models.Lead{},
		&models.Contract{},
		&models.FinancialRecord{},
		&models.Schedule{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	createIndexes(db)

	logrus.Debug("Database migrations completed")
	return nil
}

// createIndexes adds the composite indexes the list and dashboard queries
// lean on. Failures are logged, not fatal.
func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_leads_branch_status ON leads(branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_leads_branch_created ON leads(branch_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_branch_created ON contracts(branch_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_financial_branch_date ON financial_records(branch_id, transaction_date)",
		"CREATE INDEX IF NOT EXISTS idx_financial_type_date ON financial_records(type, transaction_date)",
		"CREATE INDEX IF NOT EXISTS idx_schedules_branch_start ON schedules(branch_id, start_time)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedInitialData makes sure a head-office branch and an administrator exist.
// It is idempotent.
func SeedInitialData(db *gorm.DB, cfg config.SeedConfig) error {
	logrus.Info("Seeding initial data")

	branch := models.Branch{
		Name:   "Matriz",
		Code:   "MATRIZ",
		Active: true,
	}
	if err := db.Where("code = ?", branch.Code).FirstOrCreate(&branch).Error; err != nil {
		return fmt.Errorf("failed to seed branch: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	admin := models.User{
		Name:        cfg.AdminName,
		Email:       email,
		Role:        models.RoleAdmin,
		BranchID:    &branch.ID,
		Permissions: models.FullAccess(),
		Active:      true,
	}
	if err := db.Where("email = ?", email).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logrus.WithField("admin", email).Info("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
