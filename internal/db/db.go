package db

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"seatidle-backend/config"
	"seatidle-backend/internal/localtime"
	"seatidle-backend/internal/model"
)

// Init initializes the database connection, runs migrations and seeds the
// singleton rows the rest of the system assumes to exist.
func Init(cfg *config.Config, clock *localtime.Clock) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.SeatStatus{},
		&model.OccupancyLog{},
		&model.StaffMember{},
		&model.Reservation{},
		&model.Announcement{},
		&model.Setting{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if err := seed(db, cfg, clock); err != nil {
		return nil, fmt.Errorf("seeding defaults failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// seed inserts the settings rows, the seat-status singleton and the initial
// staff list. Existing rows always win; seeding is a no-op after first run.
func seed(db *gorm.DB, cfg *config.Config, clock *localtime.Clock) error {
	settings := []model.Setting{
		{Key: model.SettingSystemStatus, Value: "1"},
		{Key: model.SettingTotalCapacity, Value: strconv.Itoa(cfg.Site.DefaultCapacity)},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
		return err
	}

	status := model.SeatStatus{ID: model.SeatStatusID, AvailableSeats: cfg.Site.DefaultCapacity}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&status).Error; err != nil {
		return err
	}

	if len(cfg.Site.SeedStaff) > 0 {
		now := clock.Now()
		staff := make([]model.StaffMember, 0, len(cfg.Site.SeedStaff))
		for _, s := range cfg.Site.SeedStaff {
			staff = append(staff, model.StaffMember{UID: s.UID, Name: s.Name, LastSeen: now})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&staff).Error; err != nil {
			return err
		}
	}
	return nil
}
