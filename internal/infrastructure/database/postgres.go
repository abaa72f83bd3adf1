package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Senshu-NEst/NEst-backend/internal/config"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Directory entities
		&entity.User{},
		&entity.RolePermission{},
		&entity.Staff{},
		&entity.Customer{},
		&entity.Store{},

		// Catalog entities
		&entity.Product{},
		&entity.StorePrice{},
		&entity.ProductVariation{},
		&entity.ProductVariationDetail{},
		&entity.Department{},

		// Stock entities
		&entity.Stock{},
		&entity.StockReceiveHistory{},
		&entity.StockReceiveHistoryItem{},

		// Payment instrument entities
		&entity.PrepaidCard{},
		&entity.DiscountedTag{},
		&entity.Wallet{},
		&entity.WalletEntry{},
		&entity.Approval{},

		// Settlement entities
		&entity.Transaction{},
		&entity.TransactionLine{},
		&entity.Payment{},
		&entity.ReturnTransaction{},
		&entity.ReturnDetail{},
		&entity.ReturnPayment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with the default roles, a head
// office store and an administrator account
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	roles := []entity.RolePermission{
		{Code: "admin", Name: "Administrator", Register: true, Global: true, ChangePrice: true, Void: true, StockReceive: true},
		{Code: "manager", Name: "Store manager", Register: true, ChangePrice: true, Void: true, StockReceive: true},
		{Code: "cashier", Name: "Cashier", Register: true},
		{Code: "stocker", Name: "Stock clerk", StockReceive: true},
	}
	for i := range roles {
		var existing entity.RolePermission
		if err := db.Where("code = ?", roles[i].Code).First(&existing).Error; err != nil {
			if err := db.Create(&roles[i]).Error; err != nil {
				log.Printf("Warning: failed to create role %s: %v", roles[i].Code, err)
			}
		}
	}

	var headOffice entity.Store
	if err := db.Where("store_code = ?", "000").First(&headOffice).Error; err != nil {
		headOffice = entity.Store{StoreCode: "000", Name: "Head office"}
		if err := db.Create(&headOffice).Error; err != nil {
			log.Printf("Warning: failed to create head office store: %v", err)
		}
	}

	var adminStaff entity.Staff
	if err := db.Where("staff_code = ?", "000000").First(&adminStaff).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("change-this-password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := entity.User{
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			Name:         "Administrator",
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Warning: failed to create admin user: %v", err)
			return nil
		}
		adminStaff = entity.Staff{
			UserID:         admin.ID,
			StaffCode:      "000000",
			AffiliateStore: headOffice.StoreCode,
			PermissionCode: "admin",
		}
		if err := db.Create(&adminStaff).Error; err != nil {
			log.Printf("Warning: failed to create admin staff: %v", err)
		}
	}

	log.Println("Default data seeded successfully")
	return nil
}
