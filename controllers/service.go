package controllers

import (
	"errors"
	"net/http"
	"time"

	"aquacare-backend/billing"
	"aquacare-backend/config"
	"aquacare-backend/lifecycle"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateServiceInput struct {
	CustomerID        string  `json:"customerId" binding:"required,uuid"`
	CustomerProductID *string `json:"customerProductId" binding:"omitempty,uuid"`
	AmcContractID     *string `json:"amcContractId" binding:"omitempty,uuid"`
	ComplaintID       *string `json:"complaintId" binding:"omitempty,uuid"`

	ServiceType       string `json:"serviceType" binding:"required,oneof=amc_service paid_service installation complaint_service warranty_service free_service"`
	ScheduledDate     string `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	ScheduledTimeSlot string `json:"scheduledTimeSlot"`
}

type UpdateServiceInput struct {
	ScheduledDate     *string `json:"scheduledDate"`
	ScheduledTimeSlot *string `json:"scheduledTimeSlot"`
	Status            *string `json:"status" binding:"omitempty,oneof=scheduled in_progress cancelled rescheduled"`
	WorkDone          *string `json:"workDone"`
}

type AssignTechnicianInput struct {
	TechnicianID string `json:"technicianId" binding:"required,uuid"`
}

type CompleteServiceInput struct {
	WorkDone      string  `json:"workDone" binding:"required"`
	PartsCost     float64 `json:"partsCost" binding:"gte=0"`
	ServiceCharge float64 `json:"serviceCharge" binding:"gte=0"`
	Discount      float64 `json:"discount" binding:"gte=0"`
	PaymentStatus string  `json:"paymentStatus" binding:"omitempty,oneof=pending partial paid"`
}

// serviceView decorates the stored row with its projected status.
type serviceView struct {
	models.Service
	EffectiveStatus string `json:"effectiveStatus"`
}

func CreateService(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	scheduledDate, err := time.Parse("2006-01-02", input.ScheduledDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid scheduled date, expected YYYY-MM-DD")
		return
	}

	customerID := uuid.MustParse(input.CustomerID)
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	service := models.Service{
		CustomerID:        customerID,
		ServiceType:       input.ServiceType,
		ScheduledDate:     scheduledDate,
		ScheduledTimeSlot: input.ScheduledTimeSlot,
		Status:            models.ServiceStatusScheduled,
	}

	if input.CustomerProductID != nil {
		unitID := uuid.MustParse(*input.CustomerProductID)
		var unit models.CustomerProduct
		if err := config.DB.First(&unit, "id = ? AND customer_id = ?", unitID, customerID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Installed product not found for this customer")
			return
		}
		service.CustomerProductID = &unitID
	}
	if input.AmcContractID != nil {
		contractID := uuid.MustParse(*input.AmcContractID)
		var contract models.AmcContract
		if err := config.DB.First(&contract, "id = ?", contractID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Contract not found")
			return
		}
		service.AmcContractID = &contractID
	}
	if input.ComplaintID != nil {
		complaintID := uuid.MustParse(*input.ComplaintID)
		var complaint models.Complaint
		if err := config.DB.First(&complaint, "id = ?", complaintID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Complaint not found")
			return
		}
		service.ComplaintID = &complaintID
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"service": service})
}

func GetServices(c *gin.Context) {
	query := config.DB.Model(&models.Service{}).
		Preload("Customer").
		Preload("CustomerProduct.Product").
		Preload("AssignedTechnician")

	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if technicianID := c.Query("technicianId"); technicianID != "" {
		query = query.Where("assigned_technician_id = ?", technicianID)
	}
	if serviceType := c.Query("type"); serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("scheduled_date >= ?", d)
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("scheduled_date < ?", d.AddDate(0, 0, 1))
		}
	}

	var list []models.Service
	if err := query.Order("scheduled_date desc, id").Find(&list).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch services")
		return
	}

	today := time.Now()
	views := make([]serviceView, 0, len(list))
	for _, svc := range list {
		views = append(views, serviceView{
			Service:         svc,
			EffectiveStatus: lifecycle.EffectiveStatus(svc.Status, svc.ScheduledDate, today),
		})
	}

	// Status filter runs on the projection, so ?status=overdue works
	// even though overdue is never stored.
	if status := c.Query("status"); status != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.EffectiveStatus == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	c.JSON(http.StatusOK, gin.H{"services": views, "count": len(views)})
}

func GetService(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var service models.Service
	err := config.DB.
		Preload("Customer").
		Preload("CustomerProduct.Product").
		Preload("AmcContract").
		Preload("AssignedTechnician").
		First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": serviceView{
		Service:         service,
		EffectiveStatus: lifecycle.EffectiveStatus(service.Status, service.ScheduledDate, time.Now()),
	}})
}

func UpdateService(c *gin.Context) {
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

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	if service.Status == models.ServiceStatusCompleted {
		utils.RespondWithError(c, http.StatusConflict, "Completed services cannot be edited")
		return
	}

	updates := map[string]interface{}{}
	if input.ScheduledDate != nil {
		d, err := time.Parse("2006-01-02", *input.ScheduledDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid scheduled date, expected YYYY-MM-DD")
			return
		}
		updates["scheduled_date"] = d
		// Reminder sent_for_date stamps stay untouched; the dispatcher
		// re-sends for the new date on its own.
	}
	if input.ScheduledTimeSlot != nil {
		updates["scheduled_time_slot"] = *input.ScheduledTimeSlot
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.WorkDone != nil {
		updates["work_done"] = *input.WorkDone
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&service).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

func AssignTechnician(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanAssignTechnician(role) {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var input AssignTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	if service.Status == models.ServiceStatusCompleted || service.Status == models.ServiceStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Service is already closed")
		return
	}

	technicianID := uuid.MustParse(input.TechnicianID)
	var technician models.User
	err := config.DB.
		First(&technician, "id = ? AND role = ? AND is_active = ?", technicianID, string(permissions.RoleTechnician), true).
		Error
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Technician not found")
		return
	}

	err = config.DB.Model(&service).Updates(map[string]interface{}{
		"assigned_technician_id": technicianID,
		"status":                 models.ServiceStatusAssigned,
	}).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign technician")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Technician assigned", "service": service})
}

// CompleteService closes out a visit with its billing figures. For an
// AMC visit the contract's completion counter moves in the same
// transaction. A free_service visit inside its window bills no service
// charge; once the window has lapsed the same record prices as a paid
// visit without changing its stored type.
func CompleteService(c *gin.Context) {
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

	var input CompleteServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Preload("AmcContract").First(&service, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	if service.Status == models.ServiceStatusCompleted {
		utils.RespondWithError(c, http.StatusConflict, "Service is already completed")
		return
	}
	if service.Status == models.ServiceStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Cancelled services cannot be completed")
		return
	}

	now := time.Now()
	serviceCharge := input.ServiceCharge - input.Discount
	if serviceCharge < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount exceeds service charge")
		return
	}
	if service.ServiceType == models.ServiceTypeFree &&
		lifecycle.IsFreeServiceActive(service, service.AmcContract, now) {
		serviceCharge = 0
	}
	if service.ServiceType == models.ServiceTypeAmc {
		serviceCharge = 0
	}

	total := billing.ServiceTotal(input.PartsCost, serviceCharge)
	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}
	if total == 0 {
		paymentStatus = models.PaymentStatusPaid
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&service).Updates(map[string]interface{}{
			"status":         models.ServiceStatusCompleted,
			"completed_date": &now,
			"work_done":      input.WorkDone,
			"parts_cost":     input.PartsCost,
			"service_charge": serviceCharge,
			"total_amount":   total,
			"payment_status": paymentStatus,
		}).Error
		if err != nil {
			return err
		}

		if service.ServiceType == models.ServiceTypeAmc && service.AmcContractID != nil {
			err = tx.Model(&models.AmcContract{}).
				Where("id = ?", *service.AmcContractID).
				UpdateColumn("services_completed", gorm.Expr("services_completed + 1")).
				Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete service")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service completed", "service": service})
}

// DeleteService always refuses. Service history is the audit trail for
// contract completion counts and the day book, so the endpoint is
// disabled for every role.
func DeleteService(c *gin.Context) {
	utils.RespondWithError(c, http.StatusForbidden, "Service records cannot be deleted")
}
