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

type CreateProductInput struct {
	Name                      string  `json:"name" binding:"required"`
	ModelNumber               string  `json:"modelNumber"`
	Description               string  `json:"description"`
	Price                     float64 `json:"price" binding:"required,gt=0"`
	WarrantyMonths            int     `json:"warrantyMonths"`
	MaintenanceIntervalMonths int     `json:"maintenanceIntervalMonths"`
}

type UpdateProductInput struct {
	Name                      *string  `json:"name"`
	ModelNumber               *string  `json:"modelNumber"`
	Description               *string  `json:"description"`
	Price                     *float64 `json:"price"`
	WarrantyMonths            *int     `json:"warrantyMonths"`
	MaintenanceIntervalMonths *int     `json:"maintenanceIntervalMonths"`
	IsActive                  *bool    `json:"isActive"`
}

func CreateProduct(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product := models.Product{
		Name:        input.Name,
		ModelNumber: input.ModelNumber,
		Description: input.Description,
		Price:       input.Price,
		IsActive:    true,
	}
	if input.WarrantyMonths > 0 {
		product.WarrantyMonths = input.WarrantyMonths
	} else {
		product.WarrantyMonths = 12
	}
	if input.MaintenanceIntervalMonths > 0 {
		product.MaintenanceIntervalMonths = input.MaintenanceIntervalMonths
	} else {
		product.MaintenanceIntervalMonths = 3
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func GetProducts(c *gin.Context) {
	query := config.DB.Model(&models.Product{})
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var products []models.Product
	if err := query.Order("name asc").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func GetProduct(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func UpdateProduct(c *gin.Context) {
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

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.ModelNumber != nil {
		updates["model_number"] = *input.ModelNumber
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Price must be greater than zero")
			return
		}
		updates["price"] = *input.Price
	}
	if input.WarrantyMonths != nil {
		updates["warranty_months"] = *input.WarrantyMonths
	}
	if input.MaintenanceIntervalMonths != nil {
		updates["maintenance_interval_months"] = *input.MaintenanceIntervalMonths
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func DeleteProduct(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "product"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	// Installed units keep their frozen product snapshot fields, so a
	// soft delete of the catalog row is safe.
	result := config.DB.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
