package controllers

import (
	"errors"
	"net/http"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Notes   *string `json:"notes"`
	IsActive *bool  `json:"isActive"`
}

func CreateCustomer(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageCustomers(role) {
		forbidden(c)
		return
	}
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Duplicate phone check keeps one record per household
	var existing models.Customer
	err := config.DB.Where("phone = ?", input.Phone).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "A customer with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		CreatedByUserID: userID,
		Name:            input.Name,
		Phone:           input.Phone,
		Email:           input.Email,
		Address:         input.Address,
		City:            input.City,
		Notes:           input.Notes,
		IsActive:        true,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

func GetCustomers(c *gin.Context) {
	query := config.DB.Model(&models.Customer{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR city LIKE ?", like, like, like)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var customers []models.Customer
	if err := query.Order("name asc").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

func GetCustomer(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var customer models.Customer
	err := config.DB.
		Preload("Products.Product").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_date desc").Limit(20)
		}).
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_date desc").Limit(20)
		}).
		First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func UpdateCustomer(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageCustomers(role) {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&customer).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func DeleteCustomer(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "customer"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

type AddCustomerProductInput struct {
	ProductID    string `json:"productId" binding:"required,uuid"`
	SerialNumber string `json:"serialNumber"`
	InstallDate  string `json:"installDate" binding:"required"` // YYYY-MM-DD
}

// AddCustomerProduct registers an installed unit against a customer.
// Warranty end is frozen from the catalog warranty length at install
// time so later catalog edits do not shift existing warranties.
func AddCustomerProduct(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanManageCustomers(role) {
		forbidden(c)
		return
	}
	customerID, ok := pathUUID(c)
	if !ok {
		return
	}

	var input AddCustomerProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	installDate, err := time.Parse("2006-01-02", input.InstallDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid install date, expected YYYY-MM-DD")
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	productID := uuid.MustParse(input.ProductID)
	var product models.Product
	if err := config.DB.First(&product, "id = ?", productID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	unit := models.CustomerProduct{
		CustomerID:      customerID,
		ProductID:       productID,
		SerialNumber:    input.SerialNumber,
		InstallDate:     installDate,
		WarrantyEndDate: installDate.AddDate(0, product.WarrantyMonths, 0),
		IsActive:        true,
	}

	if err := config.DB.Create(&unit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register installed product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customerProduct": unit})
}

func GetCustomerProducts(c *gin.Context) {
	customerID, ok := pathUUID(c)
	if !ok {
		return
	}

	var units []models.CustomerProduct
	err := config.DB.
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("install_date desc").
		Find(&units).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch installed products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customerProducts": units, "count": len(units)})
}
