package controllers

import (
	"errors"
	"net/http"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/lifecycle"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateComplaintInput struct {
	CustomerID        string  `json:"customerId" binding:"required,uuid"`
	CustomerProductID *string `json:"customerProductId" binding:"omitempty,uuid"`
	Title             string  `json:"title" binding:"required"`
	Description       string  `json:"description"`
}

type UpdateComplaintInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=open in_progress"`
}

type ResolveComplaintInput struct {
	ResolutionNotes string `json:"resolutionNotes" binding:"required"`
}

func CreateComplaint(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}

	var input CreateComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customerID := uuid.MustParse(input.CustomerID)
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	complaint := models.Complaint{
		CustomerID:  customerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.ComplaintStatusOpen,
	}
	if input.CustomerProductID != nil {
		unitID := uuid.MustParse(*input.CustomerProductID)
		var unit models.CustomerProduct
		if err := config.DB.First(&unit, "id = ? AND customer_id = ?", unitID, customerID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Installed product not found for this customer")
			return
		}
		complaint.CustomerProductID = &unitID
	}

	if err := config.DB.Create(&complaint).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create complaint")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"complaint": complaint})
}

func GetComplaints(c *gin.Context) {
	query := config.DB.Model(&models.Complaint{}).Preload("Customer")

	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at desc").Find(&complaints).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "count": len(complaints)})
}

func GetComplaint(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var complaint models.Complaint
	err := config.DB.
		Preload("Customer").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_date desc")
		}).
		First(&complaint, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Complaint not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

func UpdateComplaint(c *gin.Context) {
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

	var input UpdateComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Complaint not found")
		return
	}
	if complaint.Status == models.ComplaintStatusResolved {
		utils.RespondWithError(c, http.StatusConflict, "Resolved complaints cannot be edited")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&complaint).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update complaint")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

// ResolveComplaint is the one-way closing transition.
func ResolveComplaint(c *gin.Context) {
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

	var input ResolveComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Complaint not found")
		return
	}
	if complaint.Status == models.ComplaintStatusResolved {
		utils.RespondWithError(c, http.StatusConflict, "Complaint is already resolved")
		return
	}

	resolved := lifecycle.BuildResolution(complaint, input.ResolutionNotes, time.Now())
	err := config.DB.Model(&complaint).Updates(map[string]interface{}{
		"status":           resolved.Status,
		"resolved_date":    resolved.ResolvedDate,
		"resolution_notes": resolved.ResolutionNotes,
	}).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve complaint")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint resolved", "complaint": complaint})
}

func DeleteComplaint(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "complaint"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Complaint{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete complaint")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Complaint not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted"})
}
