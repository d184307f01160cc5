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

type InvoiceItemInput struct {
	ProductID   *string `json:"productId" binding:"omitempty,uuid"`
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"required,gt=0"`
}

// AmcContractBlock optionally opens a maintenance contract in the same
// transaction as the invoice, for unit-sale-plus-AMC deals.
type AmcContractBlock struct {
	CustomerProductID     string  `json:"customerProductId" binding:"required,uuid"`
	StartDate             string  `json:"startDate" binding:"required"`
	EndDate               string  `json:"endDate" binding:"required"`
	ServiceIntervalMonths int     `json:"serviceIntervalMonths"`
	Amount                float64 `json:"amount" binding:"required,gt=0"`
}

type CreateInvoiceInput struct {
	CustomerID     string             `json:"customerId" binding:"required,uuid"`
	ServiceID      *string            `json:"serviceId" binding:"omitempty,uuid"`
	QuotationID    *string            `json:"quotationId" binding:"omitempty,uuid"`
	Items          []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	TaxPercent     float64            `json:"taxPercent" binding:"gte=0"`
	DiscountAmount float64            `json:"discountAmount" binding:"gte=0"`
	PaymentMethod  string             `json:"paymentMethod"`
	Notes          string             `json:"notes"`
	AmountPaid     float64            `json:"amountPaid" binding:"gte=0"`

	AmcContract *AmcContractBlock `json:"amcContract"`
}

// Amount may be negative: corrections are new signed payment events,
// never edits of a prior one.
type RecordPaymentInput struct {
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"paymentMethod"`
}

func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), utils.GenerateRandomString(6))
}

func CreateInvoice(c *gin.Context) {
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

	var input CreateInvoiceInput
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
		utils.RespondWithError(c, http.StatusBadRequest, "Discount exceeds invoice total")
		return
	}
	if input.AmountPaid > totals.TotalAmount {
		utils.RespondWithError(c, http.StatusBadRequest, "Amount paid exceeds invoice total")
		return
	}

	payment := billing.ApplyPayment(totals.TotalAmount, 0, input.AmountPaid)

	invoice := models.Invoice{
		CreatedByUserID: userID,
		InvoiceNumber:   generateInvoiceNumber(),
		CustomerID:      customerID,
		InvoiceDate:     time.Now(),
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.TotalAmount,
		AmountPaid:      payment.AmountPaid,
		BalanceDue:      payment.BalanceDue,
		PaymentStatus:   payment.Status,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
	}

	if input.ServiceID != nil {
		serviceID := uuid.MustParse(*input.ServiceID)
		var service models.Service
		if err := config.DB.First(&service, "id = ?", serviceID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
			return
		}
		// One invoice per service; the day book counts a service's
		// revenue from the invoice once it exists.
		var dup int64
		config.DB.Model(&models.Invoice{}).Where("service_id = ?", serviceID).Count(&dup)
		if dup > 0 {
			utils.RespondWithError(c, http.StatusConflict, "This service is already invoiced")
			return
		}
		invoice.ServiceID = &serviceID
	}
	if input.QuotationID != nil {
		quotationID := uuid.MustParse(*input.QuotationID)
		var quotation models.Quotation
		if err := config.DB.First(&quotation, "id = ?", quotationID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Quotation not found")
			return
		}
		invoice.QuotationID = &quotationID
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		for _, item := range input.Items {
			invoiceItem := models.InvoiceItem{
				InvoiceID:   invoice.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  billing.ItemTotal(item.Quantity, item.UnitPrice),
			}
			if item.ProductID != nil {
				productID := uuid.MustParse(*item.ProductID)
				invoiceItem.ProductID = &productID
			}
			if err := tx.Create(&invoiceItem).Error; err != nil {
				return err
			}
		}

		if input.QuotationID != nil {
			err := tx.Model(&models.Quotation{}).
				Where("id = ?", *invoice.QuotationID).
				Update("status", models.QuotationStatusAccepted).Error
			if err != nil {
				return err
			}
		}

		if input.AmcContract != nil {
			contract, err := buildContractFromBlock(tx, *input.AmcContract)
			if err != nil {
				return err
			}
			if err := tx.Create(&contract).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	config.DB.Preload("Items").First(&invoice, "id = ?", invoice.ID)
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

func buildContractFromBlock(tx *gorm.DB, block AmcContractBlock) (models.AmcContract, error) {
	startDate, err := time.Parse("2006-01-02", block.StartDate)
	if err != nil {
		return models.AmcContract{}, err
	}
	endDate, err := time.Parse("2006-01-02", block.EndDate)
	if err != nil {
		return models.AmcContract{}, err
	}

	unitID := uuid.MustParse(block.CustomerProductID)
	var unit models.CustomerProduct
	if err := tx.Preload("Product").First(&unit, "id = ?", unitID).Error; err != nil {
		return models.AmcContract{}, err
	}

	interval := block.ServiceIntervalMonths
	if interval <= 0 && unit.Product != nil {
		interval = unit.Product.MaintenanceIntervalMonths
	}
	if interval <= 0 {
		interval = 3
	}

	return models.AmcContract{
		CustomerProductID:     unitID,
		StartDate:             startDate,
		EndDate:               endDate,
		ServiceIntervalMonths: interval,
		Amount:                block.Amount,
		Status:                models.AmcStatusActive,
		NextServiceDate:       firstServiceDate(startDate, endDate, interval),
		IsPaid:                true, // Sold on the invoice being created
	}, nil
}

func GetInvoices(c *gin.Context) {
	query := config.DB.Model(&models.Invoice{}).Preload("Customer")

	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("invoice_date >= ?", d)
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("invoice_date < ?", d.AddDate(0, 0, 1))
		}
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date desc").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch invoices")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "count": len(invoices)})
}

func GetInvoice(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var invoice models.Invoice
	err := config.DB.Preload("Customer").Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// RecordPayment adds a payment against an invoice. Overpayment clamps
// to zero balance rather than going negative.
func RecordPayment(c *gin.Context) {
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

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	state := billing.ApplyPayment(invoice.TotalAmount, invoice.AmountPaid, input.Amount)
	if state.AmountPaid < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Correction exceeds amount already paid")
		return
	}

	updates := map[string]interface{}{
		"amount_paid":    state.AmountPaid,
		"balance_due":    state.BalanceDue,
		"payment_status": state.Status,
	}
	if input.PaymentMethod != "" {
		updates["payment_method"] = input.PaymentMethod
	}

	if err := config.DB.Model(&invoice).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded", "invoice": invoice})
}

// DeleteInvoice always refuses. Invoices are the financial audit trail;
// the endpoint is disabled for every role including superadmin.
func DeleteInvoice(c *gin.Context) {
	utils.RespondWithError(c, http.StatusForbidden, "Invoices cannot be deleted")
}
