// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cincoin-asia/cincoin-backend/internal/config"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Negotiation{},
		&models.SellOrder{},
		&models.Transaction{},
		&models.Company{},
		&models.BankAsset{},
		&models.Referral{},
		&models.Commission{},
		&models.AdminSettings{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",
		"CREATE INDEX IF NOT EXISTS idx_users_kyc_status ON users(kyc_status)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_seller ON products(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price_fiat)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Negotiation indexes
		"CREATE INDEX IF NOT EXISTS idx_negotiations_seller_status ON negotiations(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_negotiations_buyer ON negotiations(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_negotiations_product ON negotiations(product_id)",

		// Sell queue: insertion order drives FIFO positions
		"CREATE INDEX IF NOT EXISTS idx_sell_orders_status_created ON sell_orders(status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_sell_orders_user ON sell_orders(user_id)",

		// Transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_type_status ON transactions(type, status)",

		// Company indexes
		"CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(status)",
		"CREATE INDEX IF NOT EXISTS idx_companies_city_category ON companies(city, category)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_admin_settings_category ON admin_settings(category, key)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('portuguese', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default admin account and platform settings on
// first boot.
func SeedInitialData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Name:      "Platform Admin",
			Email:     "admin@cincoin.asia",
			Role:      models.UserRoleAdmin,
			Status:    models.UserStatusActive,
			KYCStatus: models.KYCStatusVerified,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	defaultSettings := []models.AdminSettings{
		{
			Category:    "exchange",
			Key:         models.SettingTokenPriceBRL,
			Value:       models.JSONB{"value": cfg.Exchange.DefaultTokenPriceBRL},
			DataType:    "float",
			Description: "Fixed CNC price in BRL set by the platform",
		},
		{
			Category:    "fees",
			Key:         models.SettingTransferFeePercent,
			Value:       models.JSONB{"value": cfg.Platform.TransferFeePercent},
			DataType:    "float",
			Description: "Fee percentage on wallet transfers",
		},
		{
			Category:    "fees",
			Key:         models.SettingWithdrawalFeePercent,
			Value:       models.JSONB{"value": cfg.Platform.WithdrawalFeePercent},
			DataType:    "float",
			Description: "Fee percentage on fiat withdrawals",
		},
		{
			Category:    "referrals",
			Key:         models.SettingSignupBonus,
			Value:       models.JSONB{"value": cfg.Platform.SignupBonus},
			DataType:    "float",
			Description: "CNC bonus released when a referred account is verified",
		},
		{
			Category:    "referrals",
			Key:         models.SettingPurchaseCommissionPercent,
			Value:       models.JSONB{"value": cfg.Platform.PurchaseCommissionPercent},
			DataType:    "float",
			Description: "Percentage of each order accrued to the buyer's referrer",
		},
	}

	for _, setting := range defaultSettings {
		var count int64
		db.Model(&models.AdminSettings{}).Where("category = ? AND key = ?", setting.Category, setting.Key).Count(&count)

		if count == 0 {
			var admin models.User
			if err := db.Where("role = ?", models.UserRoleAdmin).First(&admin).Error; err == nil {
				setting.UpdatedBy = admin.ID
				if err := db.Create(&setting).Error; err != nil {
					log.Printf("Warning: Failed to create setting %s.%s: %v", setting.Category, setting.Key, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
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
