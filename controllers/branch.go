package controllers

import (
	"errors"
	"net/http"

	"aquacare-backend/config"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateBranchInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateBranchInput struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

func CreateBranch(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageBranches(role) {
		forbidden(c)
		return
	}

	var input CreateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	branch := models.Branch{
		Name:     input.Name,
		Address:  input.Address,
		Phone:    input.Phone,
		IsActive: true,
	}

	if err := config.DB.Create(&branch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create branch")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"branch": branch})
}

func GetBranches(c *gin.Context) {
	var branches []models.Branch
	if err := config.DB.Order("name asc").Find(&branches).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch branches")
		return
	}

	c.JSON(http.StatusOK, gin.H{"branches": branches, "count": len(branches)})
}

func GetBranch(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var branch models.Branch
	if err := config.DB.Preload("Users").First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"branch": branch})
}

func UpdateBranch(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageBranches(role) {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var input UpdateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&branch).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update branch")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"branch": branch})
}

func DeleteBranch(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "branch"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var staffCount int64
	config.DB.Model(&models.User{}).Where("branch_id = ?", id).Count(&staffCount)
	if staffCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Branch still has staff assigned")
		return
	}

	result := config.DB.Delete(&models.Branch{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete branch")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted"})
}
