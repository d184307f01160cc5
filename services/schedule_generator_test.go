package services

import (
	"testing"
	"time"

	"aquacare-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedContract(t *testing.T, db *gorm.DB, unit models.CustomerProduct, next *time.Time, end time.Time) models.AmcContract {
	t.Helper()

	contract := models.AmcContract{
		CustomerProductID:     unit.ID,
		StartDate:             time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:               end,
		ServiceIntervalMonths: 3,
		Amount:                4500,
		Status:                models.AmcStatusActive,
		NextServiceDate:       next,
	}
	require.NoError(t, db.Create(&contract).Error)
	return contract
}

func TestGenerateDueServices(t *testing.T) {
	db := newTestDB(t)
	unit := seedInstalledUnit(t, db)

	today := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	contract := seedContract(t, db, unit, &due, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	g := NewScheduleGenerator(db)
	g.clock = fixedClock(today)

	result, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Empty(t, result.Failures)

	var svc models.Service
	require.NoError(t, db.Where("amc_contract_id = ?", contract.ID).First(&svc).Error)
	assert.Equal(t, models.ServiceTypeAmc, svc.ServiceType)
	assert.Equal(t, models.ServiceStatusScheduled, svc.Status)
	assert.Equal(t, unit.CustomerID, svc.CustomerID)
	assert.True(t, svc.ScheduledDate.Equal(due))

	// next_service_date advanced by the interval
	var updated models.AmcContract
	require.NoError(t, db.First(&updated, "id = ?", contract.ID).Error)
	require.NotNil(t, updated.NextServiceDate)
	assert.True(t, updated.NextServiceDate.Equal(due.AddDate(0, 3, 0)))
}

func TestGenerateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	unit := seedInstalledUnit(t, db)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	contract := seedContract(t, db, unit, &due, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	g := NewScheduleGenerator(db)
	g.clock = fixedClock(today)

	first, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 1, first.Generated)

	// Second run against the unchanged set generates nothing.
	second, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Generated)

	// Even with the pointer forced back to the same period, the
	// existing work order blocks a duplicate.
	require.NoError(t, db.Model(&models.AmcContract{}).
		Where("id = ?", contract.ID).
		Update("next_service_date", due).Error)

	third, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 0, third.Generated)
	assert.Equal(t, 1, third.Skipped)

	var count int64
	require.NoError(t, db.Model(&models.Service{}).
		Where("amc_contract_id = ?", contract.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateSkipsFutureAndInactiveContracts(t *testing.T) {
	db := newTestDB(t)
	unit := seedInstalledUnit(t, db)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	seedContract(t, db, unit, &future, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	past := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cancelled := seedContract(t, db, unit, &past, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, db.Model(&models.AmcContract{}).
		Where("id = ?", cancelled.ID).
		Update("status", models.AmcStatusCancelled).Error)

	g := NewScheduleGenerator(db)
	g.clock = fixedClock(today)

	result, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Generated)

	var count int64
	require.NoError(t, db.Model(&models.Service{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGenerateClearsPointerPastContractEnd(t *testing.T) {
	db := newTestDB(t)
	unit := seedInstalledUnit(t, db)

	today := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	// advancing by 3 months lands past the contract end
	contract := seedContract(t, db, unit, &due, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	g := NewScheduleGenerator(db)
	g.clock = fixedClock(today)

	result, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	var updated models.AmcContract
	require.NoError(t, db.First(&updated, "id = ?", contract.ID).Error)
	assert.Nil(t, updated.NextServiceDate)
}

func TestGenerateIsolatesPerContractFailures(t *testing.T) {
	db := newTestDB(t)
	unit := seedInstalledUnit(t, db)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Contract pointing at a customer product that does not exist:
	// generation for it must fail without aborting the batch.
	broken := models.AmcContract{
		CustomerProductID:     uuid.New(),
		StartDate:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ServiceIntervalMonths: 3,
		Amount:                4500,
		Status:                models.AmcStatusActive,
		NextServiceDate:       &due,
	}
	require.NoError(t, db.Create(&broken).Error)

	healthy := seedContract(t, db, unit, &due, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	g := NewScheduleGenerator(db)
	g.clock = fixedClock(today)

	result, err := g.GenerateDueServices()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, broken.ID, result.Failures[0].ContractID)

	var count int64
	require.NoError(t, db.Model(&models.Service{}).
		Where("amc_contract_id = ?", healthy.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
