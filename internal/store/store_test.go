package store

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seatidle-backend/config"
	"seatidle-backend/internal/db"
	"seatidle-backend/internal/localtime"
	"seatidle-backend/internal/model"
)

// newTestStore sets up a fresh in-memory SQLite database, migrated and
// seeded the same way the daemon does at startup.
func newTestStore(t *testing.T) Store {
	t.Helper()

	// A named shared-cache database so every pooled connection sees the
	// same data; a single connection keeps it alive for the whole test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          dsn,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Site: config.SiteConfig{
			Timezone:        "Asia/Colombo",
			DefaultCapacity: 50,
			SeedStaff: []config.SeedStaff{
				{UID: "CARD-001", Name: "Mr. Perera"},
				{UID: "CARD-002", Name: "Ms. Silva"},
			},
		},
	}

	clock := localtime.New(cfg.Site.Timezone)
	gormDB, err := db.Init(cfg, clock)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return New(gormDB, clock)
}

// seatCount reads the current available seats straight off the table.
func seatCount(t *testing.T, s Store) int {
	t.Helper()
	var status model.SeatStatus
	require.NoError(t, s.DB().First(&status, model.SeatStatusID).Error)
	return status.AvailableSeats
}

// totalCapacity reads the capacity setting straight off the table.
func totalCapacity(t *testing.T, s Store) int {
	t.Helper()
	var setting model.Setting
	require.NoError(t, s.DB().First(&setting, "key = ?", model.SettingTotalCapacity).Error)
	var total int
	_, err := fmt.Sscanf(setting.Value, "%d", &total)
	require.NoError(t, err)
	return total
}
