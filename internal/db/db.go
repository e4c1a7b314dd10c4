package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/careplushealth/lab-scheduler/internal/config"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Hospital{},
		&models.Department{},
		&models.LabTest{},
		&models.EligibilityQuestion{},
		&models.User{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		logrus.Fatalf("failed to migrate: %v", err)
	}

	// One slot, one live appointment. Cancelled rows do not block rebooking.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
        ON appointments (date, time_slot)
        WHERE status <> 'cancelled'
    `)

	seedHospital(db)

	return db
}

func seedHospital(db *gorm.DB) {
	var count int64
	db.Model(&models.Hospital{}).Count(&count)
	if count > 0 {
		return
	}

	db.Create(&models.Hospital{
		Name:           "CarePlus General Hospital",
		Timezone:       timezone.DefaultTimezone,
		MinAdvanceDays: 2,
	})
}
