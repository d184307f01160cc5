package services

import (
	"fmt"
	"log"
	"time"

	"aquacare-backend/models"
	"aquacare-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleGenerator turns active AMC contracts into dated work orders.
// Generation is idempotent per (contract, next_service_date): an
// existing non-cancelled service for that pair means skip, not error.
// Each contract is its own unit of work so one bad contract never
// aborts the batch.
type ScheduleGenerator struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewScheduleGenerator(db *gorm.DB) *ScheduleGenerator {
	return &ScheduleGenerator{db: db, clock: time.Now}
}

type ContractFailure struct {
	ContractID uuid.UUID `json:"contractId"`
	Reason     string    `json:"reason"`
}

type GenerateResult struct {
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Failures  []ContractFailure `json:"failures,omitempty"`
}

// GenerateDueServices scans active contracts whose next_service_date
// has arrived (date-only comparison, so a midnight boundary never
// causes an off-by-one) and creates the due work orders.
func (g *ScheduleGenerator) GenerateDueServices() (GenerateResult, error) {
	var result GenerateResult

	today := utils.BeginningOfDay(g.clock())
	cutoff := today.AddDate(0, 0, 1)

	var contracts []models.AmcContract
	if err := g.db.Preload("CustomerProduct").
		Where("status = ? AND next_service_date IS NOT NULL AND next_service_date < ?",
			models.AmcStatusActive, cutoff).
		Find(&contracts).Error; err != nil {
		return result, err
	}

	for _, contract := range contracts {
		created, err := g.generateForContract(contract)
		if err != nil {
			log.Printf("schedule generator: contract %s failed: %v", contract.ID, err)
			result.Failures = append(result.Failures, ContractFailure{
				ContractID: contract.ID,
				Reason:     err.Error(),
			})
			continue
		}
		if created {
			result.Generated++
		} else {
			result.Skipped++
		}
	}

	log.Printf("schedule generator: %d generated, %d skipped, %d failed",
		result.Generated, result.Skipped, len(result.Failures))
	return result, nil
}

// generateForContract creates the due service and advances
// next_service_date inside one transaction. Returns false when an
// equivalent service already exists for the (contract, date) pair.
func (g *ScheduleGenerator) generateForContract(contract models.AmcContract) (bool, error) {
	if contract.CustomerProduct == nil {
		return false, fmt.Errorf("contract has no customer product")
	}

	due := utils.BeginningOfDay(*contract.NextServiceDate)
	created := false

	err := g.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Service{}).
			Where("amc_contract_id = ? AND scheduled_date >= ? AND scheduled_date < ? AND status <> ?",
				contract.ID, due, due.AddDate(0, 0, 1), models.ServiceStatusCancelled).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing == 0 {
			service := models.Service{
				CustomerID:        contract.CustomerProduct.CustomerID,
				CustomerProductID: &contract.CustomerProductID,
				AmcContractID:     &contract.ID,
				ServiceType:       models.ServiceTypeAmc,
				ScheduledDate:     due,
				Status:            models.ServiceStatusScheduled,
			}
			if err := tx.Create(&service).Error; err != nil {
				return err
			}
			created = true
		}

		// Advance the pointer even when the service already existed, so
		// a previously interrupted run heals instead of staying due.
		next := due.AddDate(0, contract.ServiceIntervalMonths, 0)
		update := map[string]interface{}{"next_service_date": next}
		if next.After(utils.BeginningOfDay(contract.EndDate)) {
			update["next_service_date"] = nil
		}
		return tx.Model(&models.AmcContract{}).
			Where("id = ?", contract.ID).
			Updates(update).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
