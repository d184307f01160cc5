package services

import (
	"fmt"
	"testing"
	"time"

	"aquacare-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.CustomerProduct{},
		&models.AmcContract{},
		&models.Service{},
	))

	return db
}

func seedInstalledUnit(t *testing.T, db *gorm.DB) models.CustomerProduct {
	t.Helper()

	customer := models.Customer{
		CreatedByUserID: uuid.New(),
		Name:            "Ravi Kumar",
		Phone:           "+919876543210",
		Email:           "ravi@example.com",
	}
	require.NoError(t, db.Create(&customer).Error)

	product := models.Product{
		Name:                      "RO Purifier X2",
		Price:                     15000,
		WarrantyMonths:            12,
		MaintenanceIntervalMonths: 3,
	}
	require.NoError(t, db.Create(&product).Error)

	unit := models.CustomerProduct{
		CustomerID:      customer.ID,
		ProductID:       product.ID,
		SerialNumber:    "SN-001",
		InstallDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		WarrantyEndDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&unit).Error)

	return unit
}
