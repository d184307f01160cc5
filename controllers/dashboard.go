package controllers

import (
	"net/http"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/lifecycle"
	"aquacare-backend/models"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboard aggregates the landing-page counters. Overdue and
// renewal-due numbers come from the same projections the list views
// use, so the counts can never disagree with what the lists show.
func GetDashboard(c *gin.Context) {
	today := time.Now()
	dayStart := utils.BeginningOfDay(today)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var customerCount int64
	config.DB.Model(&models.Customer{}).Where("is_active = ?", true).Count(&customerCount)

	var todayServices int64
	config.DB.Model(&models.Service{}).
		Where("scheduled_date >= ? AND scheduled_date < ?", dayStart, dayEnd).
		Where("status IN ?", []string{models.ServiceStatusScheduled, models.ServiceStatusAssigned}).
		Count(&todayServices)

	// Overdue is a projection, so the count uses the same predicate the
	// projection applies: open statuses with a date before today.
	var overdueServices int64
	config.DB.Model(&models.Service{}).
		Where("scheduled_date < ?", dayStart).
		Where("status IN ?", []string{models.ServiceStatusScheduled, models.ServiceStatusAssigned}).
		Count(&overdueServices)

	var openComplaints int64
	config.DB.Model(&models.Complaint{}).
		Where("status <> ?", models.ComplaintStatusResolved).
		Count(&openComplaints)

	var activeContracts []models.AmcContract
	config.DB.Where("status = ?", models.AmcStatusActive).Find(&activeContracts)

	var renewalDue, expired, active int
	for _, contract := range activeContracts {
		switch lifecycle.ContractEffectiveStatus(contract, today) {
		case models.AmcStatusPendingRenewal:
			renewalDue++
		case models.AmcStatusExpired:
			expired++
		default:
			active++
		}
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	var monthRevenue float64
	config.DB.Model(&models.Invoice{}).
		Where("invoice_date >= ? AND invoice_date < ?", monthStart, monthStart.AddDate(0, 1, 0)).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&monthRevenue)

	var unpaidInvoices int64
	var duesOutstanding float64
	config.DB.Model(&models.Invoice{}).
		Where("payment_status <> ?", models.PaymentStatusPaid).
		Count(&unpaidInvoices)
	config.DB.Model(&models.Invoice{}).
		Where("payment_status <> ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(balance_due), 0)").
		Scan(&duesOutstanding)

	c.JSON(http.StatusOK, gin.H{
		"customers": gin.H{"active": customerCount},
		"services": gin.H{
			"today":   todayServices,
			"overdue": overdueServices,
		},
		"complaints": gin.H{"open": openComplaints},
		"contracts": gin.H{
			"active":     active,
			"renewalDue": renewalDue,
			"expired":    expired,
		},
		"billing": gin.H{
			"monthRevenue":    monthRevenue,
			"unpaidInvoices":  unpaidInvoices,
			"duesOutstanding": duesOutstanding,
		},
	})
}
