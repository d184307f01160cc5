package controllers

import (
	"errors"
	"net/http"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/lifecycle"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/services"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAmcContractInput struct {
	CustomerProductID     string  `json:"customerProductId" binding:"required,uuid"`
	StartDate             string  `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate               string  `json:"endDate" binding:"required"`
	ServiceIntervalMonths int     `json:"serviceIntervalMonths"`
	Amount                float64 `json:"amount" binding:"required,gt=0"`
	IsPaid                bool    `json:"isPaid"`
}

type UpdateAmcContractInput struct {
	ServiceIntervalMonths *int     `json:"serviceIntervalMonths"`
	Amount                *float64 `json:"amount"`
	IsPaid                *bool    `json:"isPaid"`
	Status                *string  `json:"status" binding:"omitempty,oneof=active cancelled"`
}

type RenewAmcContractInput struct {
	NewEndDate string  `json:"newEndDate" binding:"required"` // YYYY-MM-DD
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// firstServiceDate returns start + interval, or nil when that falls
// past the contract end. The pointer always stays inside the contract
// period.
func firstServiceDate(start, end time.Time, intervalMonths int) *time.Time {
	first := start.AddDate(0, intervalMonths, 0)
	if first.After(end) {
		return nil
	}
	return &first
}

// amcContractView decorates the stored row with its projected status.
type amcContractView struct {
	models.AmcContract
	EffectiveStatus string `json:"effectiveStatus"`
}

func CreateAmcContract(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}

	var input CreateAmcContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}
	if !endDate.After(startDate) {
		utils.RespondWithError(c, http.StatusBadRequest, "End date must be after start date")
		return
	}

	unitID := uuid.MustParse(input.CustomerProductID)
	var unit models.CustomerProduct
	if err := config.DB.Preload("Product").First(&unit, "id = ?", unitID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Installed product not found")
		return
	}

	// Only one live contract per installed unit
	var existing int64
	config.DB.Model(&models.AmcContract{}).
		Where("customer_product_id = ? AND status = ? AND end_date >= ?", unitID, models.AmcStatusActive, time.Now()).
		Count(&existing)
	if existing > 0 {
		utils.RespondWithError(c, http.StatusConflict, "This unit already has an active contract")
		return
	}

	// The catalog row may be soft-deleted out from under the unit, in
	// which case Preload leaves Product nil.
	interval := input.ServiceIntervalMonths
	if interval <= 0 && unit.Product != nil {
		interval = unit.Product.MaintenanceIntervalMonths
	}
	if interval <= 0 {
		interval = 3
	}

	contract := models.AmcContract{
		CustomerProductID:     unitID,
		StartDate:             startDate,
		EndDate:               endDate,
		ServiceIntervalMonths: interval,
		Amount:                input.Amount,
		Status:                models.AmcStatusActive,
		NextServiceDate:       firstServiceDate(startDate, endDate, interval),
		IsPaid:                input.IsPaid,
	}

	if err := config.DB.Create(&contract).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contract")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract})
}

func GetAmcContracts(c *gin.Context) {
	query := config.DB.Model(&models.AmcContract{}).
		Preload("CustomerProduct.Customer").
		Preload("CustomerProduct.Product")

	if customerID := c.Query("customerId"); customerID != "" {
		query = query.
			Joins("JOIN customer_products ON customer_products.id = amc_contracts.customer_product_id").
			Where("customer_products.customer_id = ?", customerID)
	}

	var contracts []models.AmcContract
	if err := query.Order("end_date asc").Find(&contracts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch contracts")
		return
	}

	today := time.Now()
	views := make([]amcContractView, 0, len(contracts))
	for _, contract := range contracts {
		views = append(views, amcContractView{
			AmcContract:     contract,
			EffectiveStatus: lifecycle.ContractEffectiveStatus(contract, today),
		})
	}

	// Optional filter on the projected status, e.g. ?status=pending_renewal
	if status := c.Query("status"); status != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.EffectiveStatus == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	c.JSON(http.StatusOK, gin.H{"contracts": views, "count": len(views)})
}

func GetAmcContract(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var contract models.AmcContract
	err := config.DB.
		Preload("CustomerProduct.Customer").
		Preload("CustomerProduct.Product").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_date desc")
		}).
		First(&contract, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": amcContractView{
		AmcContract:     contract,
		EffectiveStatus: lifecycle.ContractEffectiveStatus(contract, time.Now()),
	}})
}

func UpdateAmcContract(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var input UpdateAmcContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contract models.AmcContract
	if err := config.DB.First(&contract, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		return
	}

	updates := map[string]interface{}{}
	if input.ServiceIntervalMonths != nil {
		if *input.ServiceIntervalMonths <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Service interval must be positive")
			return
		}
		updates["service_interval_months"] = *input.ServiceIntervalMonths
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.IsPaid != nil {
		updates["is_paid"] = *input.IsPaid
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&contract).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contract")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// RenewAmcContract resets the contract for a new period. The schedule
// pointer restarts from today so generation resumes immediately on the
// renewed contract.
func RenewAmcContract(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var input RenewAmcContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	newEndDate, err := time.Parse("2006-01-02", input.NewEndDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	var contract models.AmcContract
	if err := config.DB.First(&contract, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		return
	}

	if !newEndDate.After(time.Now()) {
		utils.RespondWithError(c, http.StatusBadRequest, "New end date must be in the future")
		return
	}

	renewed := lifecycle.BuildRenewal(contract, newEndDate, input.Amount)
	renewed.NextServiceDate = firstServiceDate(
		utils.BeginningOfDay(time.Now()), newEndDate, renewed.ServiceIntervalMonths)

	err = config.DB.Model(&contract).Updates(map[string]interface{}{
		"status":             renewed.Status,
		"services_completed": renewed.ServicesCompleted,
		"is_paid":            renewed.IsPaid,
		"end_date":           renewed.EndDate,
		"amount":             renewed.Amount,
		"next_service_date":  renewed.NextServiceDate,
	}).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to renew contract")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract renewed", "contract": contract})
}

// GenerateAmcServices runs the schedule generator on demand, outside
// the nightly cron. Partial failures come back per contract.
func GenerateAmcServices(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}

	result, err := services.NewScheduleGenerator(config.DB).GenerateDueServices()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Service generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func DeleteAmcContract(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "amc_contract"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var serviceCount int64
	config.DB.Model(&models.Service{}).Where("amc_contract_id = ?", id).Count(&serviceCount)
	if serviceCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Contract has service history; cancel it instead")
		return
	}

	result := config.DB.Delete(&models.AmcContract{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contract")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}
