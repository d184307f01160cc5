package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"aquacare-backend/billing"
	"aquacare-backend/config"
	"aquacare-backend/models"
	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationItemInput struct {
	ProductID   *string `json:"productId" binding:"omitempty,uuid"`
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"required,gt=0"`
}

type CreateQuotationInput struct {
	CustomerID     string               `json:"customerId" binding:"required,uuid"`
	Items          []QuotationItemInput `json:"items" binding:"required,min=1,dive"`
	TaxPercent     float64              `json:"taxPercent" binding:"gte=0"`
	DiscountAmount float64              `json:"discountAmount" binding:"gte=0"`
	ValidUntil     *string              `json:"validUntil"`
	Notes          string               `json:"notes"`
}

type UpdateQuotationStatusInput struct {
	Status string `json:"status" binding:"required,oneof=draft sent accepted rejected expired"`
}

// Allowed quotation status moves. Accepted and rejected are terminal.
var quotationTransitions = map[string][]string{
	models.QuotationStatusDraft: {models.QuotationStatusSent, models.QuotationStatusExpired},
	models.QuotationStatusSent:  {models.QuotationStatusAccepted, models.QuotationStatusRejected, models.QuotationStatusExpired},
}

func quotationCanMove(from, to string) bool {
	for _, allowed := range quotationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func generateQuotationNumber() string {
	return fmt.Sprintf("QUO-%s-%s", time.Now().Format("20060102"), utils.GenerateRandomString(6))
}

func CreateQuotation(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	var input CreateQuotationInput
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

	lineItems := make([]billing.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		lineItems = append(lineItems, billing.LineItem{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	totals := billing.Calculate(lineItems, input.TaxPercent, input.DiscountAmount)
	if totals.TotalAmount < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount exceeds quotation total")
		return
	}

	quotation := models.Quotation{
		CreatedByUserID: userID,
		QuotationNumber: generateQuotationNumber(),
		CustomerID:      customerID,
		QuotationDate:   time.Now(),
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.TotalAmount,
		Status:          models.QuotationStatusDraft,
		Notes:           input.Notes,
	}
	if input.ValidUntil != nil {
		d, err := time.Parse("2006-01-02", *input.ValidUntil)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid validity date, expected YYYY-MM-DD")
			return
		}
		quotation.ValidUntil = &d
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quotation).Error; err != nil {
			return err
		}
		for _, item := range input.Items {
			quotationItem := models.QuotationItem{
				QuotationID: quotation.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  billing.ItemTotal(item.Quantity, item.UnitPrice),
			}
			if item.ProductID != nil {
				productID := uuid.MustParse(*item.ProductID)
				quotationItem.ProductID = &productID
			}
			if err := tx.Create(&quotationItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quotation")
		return
	}

	config.DB.Preload("Items").First(&quotation, "id = ?", quotation.ID)
	c.JSON(http.StatusCreated, gin.H{"quotation": quotation})
}

// quotationView carries the expiry projection: a draft or sent
// quotation past valid_until shows as expired without a stored status
// change.
type quotationView struct {
	models.Quotation
	EffectiveStatus string `json:"effectiveStatus"`
}

func quotationEffectiveStatus(q models.Quotation, today time.Time) string {
	if q.Status != models.QuotationStatusDraft && q.Status != models.QuotationStatusSent {
		return q.Status
	}
	if q.ValidUntil != nil && utils.BeginningOfDay(*q.ValidUntil).Before(utils.BeginningOfDay(today)) {
		return models.QuotationStatusExpired
	}
	return q.Status
}

func GetQuotations(c *gin.Context) {
	query := config.DB.Model(&models.Quotation{})

	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var quotations []models.Quotation
	if err := query.Order("quotation_date desc").Find(&quotations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch quotations")
		return
	}

	today := time.Now()
	views := make([]quotationView, 0, len(quotations))
	for _, q := range quotations {
		views = append(views, quotationView{
			Quotation:       q,
			EffectiveStatus: quotationEffectiveStatus(q, today),
		})
	}

	c.JSON(http.StatusOK, gin.H{"quotations": views, "count": len(views)})
}

func GetQuotation(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var quotation models.Quotation
	if err := config.DB.Preload("Items").First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quotation not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotation": quotationView{
		Quotation:       quotation,
		EffectiveStatus: quotationEffectiveStatus(quotation, time.Now()),
	}})
}

func UpdateQuotationStatus(c *gin.Context) {
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

	var input UpdateQuotationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var quotation models.Quotation
	if err := config.DB.First(&quotation, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Quotation not found")
		return
	}

	if !quotationCanMove(quotation.Status, input.Status) {
		utils.RespondWithError(c, http.StatusConflict,
			fmt.Sprintf("Cannot move quotation from %s to %s", quotation.Status, input.Status))
		return
	}

	if err := config.DB.Model(&quotation).Update("status", input.Status).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quotation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotation": quotation})
}

func DeleteQuotation(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "quotation"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var invoiced int64
	config.DB.Model(&models.Invoice{}).Where("quotation_id = ?", id).Count(&invoiced)
	if invoiced > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Quotation is linked to an invoice")
		return
	}

	result := config.DB.Delete(&models.Quotation{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quotation")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Quotation not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})
}
