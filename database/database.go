package database

import (
	"fmt"
	"log"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Payment{},
		&models.AvailabilityRule{},
		&models.BlockedDate{},
		&models.Setting{},
		&models.Donation{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	hash := string(hashedPassword)
	adminUser := models.User{
		Name:         config.Config("ADMIN_NAME"),
		Email:        adminEmail,
		PasswordHash: &hash,
		Role:         "admin",
	}
	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	log.Println("✅ Admin user seeded successfully")
}

// SeedDefaults installs the weekly availability rules and global settings
// on first boot. Mon-Sat 10:00-18:00, Sunday disabled.
func SeedDefaults() {
	var ruleCount int64
	if err := DB.Model(&models.AvailabilityRule{}).Count(&ruleCount).Error; err != nil {
		log.Fatalf("🔥 Failed to check availability rules: %v", err)
	}

	if ruleCount == 0 {
		for day := 0; day < 7; day++ {
			rule := models.AvailabilityRule{
				DayOfWeek: day,
				Enabled:   day != 0,
				Ranges: []models.TimeRange{
					{StartHour: 10, StartMinute: 0, EndHour: 18, EndMinute: 0},
				},
			}
			if err := DB.Create(&rule).Error; err != nil {
				log.Fatalf("🔥 Failed to seed availability rule for day %d: %v", day, err)
			}
		}
		log.Println("✅ Default availability rules seeded")
	}

	defaults := map[string]string{
		"bufferMinutes":       "10",
		"timezone":            `"Asia/Kolkata"`,
		"maxSessionsPerDay":   "2",
		"maxSessionsPerMonth": "10",
		"testModeEnabled":     "false",
	}
	for key, value := range defaults {
		var count int64
		if err := DB.Model(&models.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			log.Fatalf("🔥 Failed to check setting %s: %v", key, err)
		}
		if count == 0 {
			if err := DB.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
				log.Fatalf("🔥 Failed to seed setting %s: %v", key, err)
			}
		}
	}
}
