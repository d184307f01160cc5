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
	"gorm.io/gorm"
)

type CreateExpenseInput struct {
	ExpenseDate   string  `json:"expenseDate" binding:"required"` // YYYY-MM-DD
	Title         string  `json:"title" binding:"required"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod"`
	Reference     string  `json:"reference"`
	Notes         string  `json:"notes"`
}

type UpdateExpenseInput struct {
	Title         *string  `json:"title"`
	Category      *string  `json:"category"`
	Amount        *float64 `json:"amount"`
	PaymentMethod *string  `json:"paymentMethod"`
	Reference     *string  `json:"reference"`
	Notes         *string  `json:"notes"`
}

func CreateExpense(c *gin.Context) {
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

	var input CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	expenseDate, err := time.Parse("2006-01-02", input.ExpenseDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense date, expected YYYY-MM-DD")
		return
	}

	expense := models.Expense{
		CreatedByUserID: userID,
		ExpenseDate:     expenseDate,
		Title:           input.Title,
		Amount:          input.Amount,
		PaymentMethod:   input.PaymentMethod,
		Reference:       input.Reference,
		Notes:           input.Notes,
	}
	if input.Category != "" {
		expense.Category = input.Category
	} else {
		expense.Category = "General"
	}

	if err := config.DB.Create(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

func GetExpenses(c *gin.Context) {
	query := config.DB.Model(&models.Expense{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("expense_date >= ?", d)
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("expense_date < ?", d.AddDate(0, 0, 1))
		}
	}

	var expenses []models.Expense
	if err := query.Order("expense_date desc").Find(&expenses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch expenses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses, "count": len(expenses)})
}

func GetExpense(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := config.DB.First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

func UpdateExpense(c *gin.Context) {
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

	var input UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var expense models.Expense
	if err := config.DB.First(&expense, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Amount must be greater than zero")
			return
		}
		updates["amount"] = *input.Amount
	}
	if input.PaymentMethod != nil {
		updates["payment_method"] = *input.PaymentMethod
	}
	if input.Reference != nil {
		updates["reference"] = *input.Reference
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&expense).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update expense")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

func DeleteExpense(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if err := permissions.CheckDelete(role, "expense"); err != nil {
		forbidden(c)
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Expense{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
