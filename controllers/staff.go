package controllers

import (
	"errors"
	"net/http"

	"aquacare-backend/config"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateStaffInput struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    string  `json:"phone" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     string  `json:"role" binding:"required,oneof=manager staff technician"`
	BranchID *string `json:"branchId" binding:"omitempty,uuid"`
}

type UpdateStaffInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" binding:"omitempty,oneof=manager staff technician"`
	BranchID *string `json:"branchId" binding:"omitempty,uuid"`
	IsActive *bool   `json:"isActive"`
}

func CreateStaff(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageStaff(role) {
		forbidden(c)
		return
	}

	var input CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.User
	err := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password, // Hashed in BeforeCreate hook
		Role:     input.Role,
		IsActive: true,
	}
	if input.BranchID != nil {
		branchID := uuid.MustParse(*input.BranchID)
		var branch models.Branch
		if err := config.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
			return
		}
		user.BranchID = &branchID
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create staff member")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"phone":    user.Phone,
			"role":     user.Role,
			"branchId": user.BranchID,
		},
	})
}

func GetStaff(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageStaff(role) {
		forbidden(c)
		return
	}

	query := config.DB.Model(&models.User{}).Preload("Branch")
	if r := c.Query("role"); r != "" {
		query = query.Where("role = ?", r)
	}
	if branch := c.Query("branchId"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	var users []models.User
	if err := query.Order("name asc").Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": users, "count": len(users)})
}

// GetTechnicians lists active technicians for the assignment dropdown.
// Open to every authenticated role that can assign.
func GetTechnicians(c *gin.Context) {
	var technicians []models.User
	err := config.DB.
		Where("role = ? AND is_active = ?", string(permissions.RoleTechnician), true).
		Order("name asc").
		Find(&technicians).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch technicians")
		return
	}

	c.JSON(http.StatusOK, gin.H{"technicians": technicians, "count": len(technicians)})
}

func UpdateStaff(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageStaff(role) {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}

	// A manager cannot edit a superadmin account
	if user.Role == string(permissions.RoleSuperAdmin) && role != permissions.RoleSuperAdmin {
		forbidden(c)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.BranchID != nil {
		branchID := uuid.MustParse(*input.BranchID)
		updates["branch_id"] = branchID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update staff member")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"phone":    user.Phone,
		"role":     user.Role,
		"branchId": user.BranchID,
		"isActive": user.IsActive,
	}})
}

func DeleteStaff(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "staff"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	callerID, ok := requestUserID(c)
	if !ok {
		return
	}
	if callerID == id {
		utils.RespondWithError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	result := config.DB.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete staff member")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted"})
}
