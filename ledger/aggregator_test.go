package ledger

import (
	"fmt"
	"testing"
	"time"

	"aquacare-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Service{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Expense{},
	))

	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedDayBook(t *testing.T, db *gorm.DB) {
	t.Helper()

	customer := models.Customer{Name: "Ravi Kumar", Phone: "+919876543210"}
	require.NoError(t, db.Create(&customer).Error)

	invoices := []models.Invoice{
		{
			CreatedByUserID: uuid.New(),
			InvoiceNumber:   "INV-20240601-000001",
			CustomerID:      customer.ID,
			InvoiceDate:     date(2024, 6, 1),
			Subtotal:        1000, TotalAmount: 1000,
			AmountPaid: 1000, BalanceDue: 0,
			PaymentStatus: models.PaymentStatusPaid,
		},
		{
			CreatedByUserID: uuid.New(),
			InvoiceNumber:   "INV-20240610-000002",
			CustomerID:      customer.ID,
			InvoiceDate:     date(2024, 6, 10),
			Subtotal:        2000, TotalAmount: 2000,
			AmountPaid: 500, BalanceDue: 1500,
			PaymentStatus: models.PaymentStatusPartial,
		},
	}
	for i := range invoices {
		require.NoError(t, db.Create(&invoices[i]).Error)
	}

	completed := date(2024, 6, 5)
	service := models.Service{
		CustomerID:    customer.ID,
		ServiceType:   models.ServiceTypePaid,
		ScheduledDate: completed,
		Status:        models.ServiceStatusCompleted,
		CompletedDate: &completed,
		PartsCost:     300, ServiceCharge: 200, TotalAmount: 500,
		PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(&service).Error)

	expenses := []models.Expense{
		{
			CreatedByUserID: uuid.New(),
			ExpenseDate:     date(2024, 6, 3),
			Title:           "Filter cartridges",
			Category:        "Spares",
			Amount:          800,
		},
		{
			CreatedByUserID: uuid.New(),
			ExpenseDate:     date(2024, 6, 12),
			Title:           "Fuel",
			Category:        "Travel",
			Amount:          200,
		},
	}
	for i := range expenses {
		require.NoError(t, db.Create(&expenses[i]).Error)
	}
}

func TestDayBookMergesAndSummarizes(t *testing.T) {
	db := newTestDB(t)
	seedDayBook(t, db)

	a := NewAggregator(db)
	page, summary, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), 0, 50)
	require.NoError(t, err)

	assert.Equal(t, 5, page.TotalCount)
	assert.False(t, page.HasMore)
	assert.False(t, page.Truncated)

	// newest first
	require.Len(t, page.Entries, 5)
	for i := 1; i < len(page.Entries); i++ {
		assert.False(t, page.Entries[i].EntryDate.After(page.Entries[i-1].EntryDate))
	}
	assert.Equal(t, EntryTypeExpense, page.Entries[0].EntryType)
	assert.Equal(t, "Fuel", page.Entries[0].Description)
	assert.Equal(t, -200.0, page.Entries[0].Amount)

	assert.InDelta(t, 3000, summary.TotalSales, 0.001)
	assert.InDelta(t, 1500, summary.AmountCollected, 0.001)
	assert.InDelta(t, 1500, summary.DuesOutstanding, 0.001)
	assert.InDelta(t, 500, summary.ServiceRevenue, 0.001)
	assert.InDelta(t, 3500, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 1000, summary.TotalExpenses, 0.001)
	assert.Equal(t, 2, summary.InvoiceCount)
	assert.Equal(t, 1, summary.ServiceCount)
	assert.Equal(t, 2, summary.ExpenseCount)
}

func TestDayBookPageSumsMatchSummary(t *testing.T) {
	db := newTestDB(t)
	seedDayBook(t, db)

	a := NewAggregator(db)

	var sum float64
	offset := 0
	for {
		page, _, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), offset, 2)
		require.NoError(t, err)
		for _, e := range page.Entries {
			sum += e.Amount
		}
		if !page.HasMore {
			break
		}
		offset += len(page.Entries)
	}

	_, summary, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), 0, 50)
	require.NoError(t, err)

	// expenses are signed debits in the merged view
	assert.InDelta(t, summary.TotalRevenue-summary.TotalExpenses, sum, 0.001)
}

func TestDayBookExcludesInvoicedServices(t *testing.T) {
	db := newTestDB(t)

	customer := models.Customer{Name: "Meena Sharma", Phone: "+919812345678"}
	require.NoError(t, db.Create(&customer).Error)

	completed := date(2024, 6, 5)
	service := models.Service{
		CustomerID:    customer.ID,
		ServiceType:   models.ServiceTypePaid,
		ScheduledDate: completed,
		Status:        models.ServiceStatusCompleted,
		CompletedDate: &completed,
		TotalAmount:   700,
		PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(&service).Error)

	invoice := models.Invoice{
		CreatedByUserID: uuid.New(),
		InvoiceNumber:   "INV-20240605-000003",
		CustomerID:      customer.ID,
		ServiceID:       &service.ID,
		InvoiceDate:     completed,
		Subtotal:        700, TotalAmount: 700,
		AmountPaid: 700, BalanceDue: 0,
		PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(&invoice).Error)

	a := NewAggregator(db)
	page, summary, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), 0, 50)
	require.NoError(t, err)

	// the service shows up once, through its invoice
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, EntryTypeInvoice, page.Entries[0].EntryType)
	assert.InDelta(t, 700, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 0, summary.ServiceRevenue, 0.001)
}

func TestDayBookCapsRange(t *testing.T) {
	db := newTestDB(t)
	seedDayBook(t, db)

	a := NewAggregator(db)
	to := date(2024, 6, 30)
	page, _, err := a.DayBook(date(2023, 1, 1), to, 0, 50)
	require.NoError(t, err)

	assert.True(t, page.Truncated)
	assert.True(t, page.FromDate.Equal(to.AddDate(0, 0, -MaxRangeDays)))
}

func TestDayBookPagination(t *testing.T) {
	db := newTestDB(t)
	seedDayBook(t, db)

	a := NewAggregator(db)

	first, _, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), 0, 2)
	require.NoError(t, err)
	assert.Len(t, first.Entries, 2)
	assert.Equal(t, 5, first.TotalCount)
	assert.True(t, first.HasMore)

	last, _, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), 4, 2)
	require.NoError(t, err)
	assert.Len(t, last.Entries, 1)
	assert.False(t, last.HasMore)

	// offset past the end yields an empty page, not an error
	empty, _, err := a.DayBook(date(2024, 6, 1), date(2024, 6, 30), 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
	assert.False(t, empty.HasMore)
}
