// Package ledger builds the day-book: one time-ordered view of every
// revenue- and expense-bearing event in a date window, with an
// aggregate summary computed independently of the paginated detail.
package ledger

import (
	"sort"
	"time"

	"aquacare-backend/models"
	"aquacare-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRangeDays caps an open-ended or oversized range to bound result
// size and query cost.
const MaxRangeDays = 180

const defaultPageSize = 25

// Entry types
const (
	EntryTypeInvoice = "invoice"
	EntryTypeService = "service"
	EntryTypeExpense = "expense"
)

// Entry is the common shape every day-book row is normalized to.
// Type-specific fields are zero for entries of other types. Expense
// amounts are negative: the merged view treats debits as signed.
type Entry struct {
	EntryDate   time.Time `json:"entryDate"`
	EntryType   string    `json:"entryType"`
	RecordID    uuid.UUID `json:"recordId"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Dues        float64   `json:"dues"`
	Status      string    `json:"status"`

	PaymentMethod string `json:"paymentMethod,omitempty"`
	Category      string `json:"category,omitempty"`
	ServiceType   string `json:"serviceType,omitempty"`
}

// Summary aggregates the whole range, independent of pagination.
type Summary struct {
	TotalSales      float64 `json:"totalSales"`
	AmountCollected float64 `json:"amountCollected"`
	DuesOutstanding float64 `json:"duesOutstanding"`
	ServiceRevenue  float64 `json:"serviceRevenue"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalExpenses   float64 `json:"totalExpenses"`

	InvoiceCount int `json:"invoiceCount"`
	ServiceCount int `json:"serviceCount"`
	ExpenseCount int `json:"expenseCount"`
}

type Page struct {
	Entries    []Entry   `json:"entries"`
	TotalCount int       `json:"totalCount"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
	HasMore    bool      `json:"hasMore"`
	FromDate   time.Time `json:"fromDate"`
	ToDate     time.Time `json:"toDate"`
	// Truncated is set when the requested range exceeded MaxRangeDays
	// and FromDate was moved forward; callers use it to detect the cap.
	Truncated bool `json:"truncated"`
}

type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// DayBook returns one page of the merged, date-sorted entry set for
// [from, to] plus the range summary. Entries are newest first with id
// as tiebreaker so pagination is stable across calls.
func (a *Aggregator) DayBook(from, to time.Time, offset, limit int) (Page, Summary, error) {
	var summary Summary

	to = utils.BeginningOfDay(to)
	from = utils.BeginningOfDay(from)
	page := Page{Offset: offset, Limit: limit}

	if from.Before(to.AddDate(0, 0, -MaxRangeDays)) {
		from = to.AddDate(0, 0, -MaxRangeDays)
		page.Truncated = true
	}
	page.FromDate = from
	page.ToDate = to
	end := to.AddDate(0, 0, 1)

	if limit <= 0 {
		page.Limit = defaultPageSize
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
		page.Offset = 0
	}

	entries, err := a.collect(from, end)
	if err != nil {
		return page, summary, err
	}

	for _, e := range entries {
		switch e.EntryType {
		case EntryTypeInvoice:
			summary.InvoiceCount++
			summary.TotalSales += e.Amount
			summary.AmountCollected += e.Amount - e.Dues
			summary.DuesOutstanding += e.Dues
		case EntryTypeService:
			summary.ServiceCount++
			summary.ServiceRevenue += e.Amount
		case EntryTypeExpense:
			summary.ExpenseCount++
			summary.TotalExpenses += -e.Amount
		}
	}
	summary.TotalRevenue = summary.TotalSales + summary.ServiceRevenue

	page.TotalCount = len(entries)
	if offset < len(entries) {
		pageEnd := offset + limit
		if pageEnd > len(entries) {
			pageEnd = len(entries)
		}
		page.Entries = entries[offset:pageEnd]
	}
	page.HasMore = offset+len(page.Entries) < page.TotalCount

	return page, summary, nil
}

// collect loads all three entry sources for the window and merges them
// into one slice sorted newest first.
func (a *Aggregator) collect(from, end time.Time) ([]Entry, error) {
	var entries []Entry

	var invoices []models.Invoice
	if err := a.db.Preload("Customer").
		Where("invoice_date >= ? AND invoice_date < ?", from, end).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		desc := "Sale"
		if inv.Customer != nil {
			desc = "Sale - " + inv.Customer.Name
		}
		entries = append(entries, Entry{
			EntryDate:     inv.InvoiceDate,
			EntryType:     EntryTypeInvoice,
			RecordID:      inv.ID,
			Reference:     inv.InvoiceNumber,
			Description:   desc,
			Amount:        inv.TotalAmount,
			Dues:          inv.BalanceDue,
			Status:        inv.PaymentStatus,
			PaymentMethod: inv.PaymentMethod,
		})
	}

	// Completed, uninvoiced services count as service revenue; invoiced
	// ones already appear through their invoice.
	var services []models.Service
	if err := a.db.Preload("Customer").
		Where("status = ? AND completed_date >= ? AND completed_date < ?",
			models.ServiceStatusCompleted, from, end).
		Where("id NOT IN (?)", a.db.Model(&models.Invoice{}).
			Select("service_id").Where("service_id IS NOT NULL")).
		Find(&services).Error; err != nil {
		return nil, err
	}
	for _, svc := range services {
		desc := "Service visit"
		if svc.Customer != nil {
			desc = "Service - " + svc.Customer.Name
		}
		dues := 0.0
		if svc.PaymentStatus != models.PaymentStatusPaid {
			dues = svc.TotalAmount
		}
		entries = append(entries, Entry{
			EntryDate:   *svc.CompletedDate,
			EntryType:   EntryTypeService,
			RecordID:    svc.ID,
			Reference:   "SRV-" + svc.ID.String()[:8],
			Description: desc,
			Amount:      svc.TotalAmount,
			Dues:        dues,
			Status:      svc.PaymentStatus,
			ServiceType: svc.ServiceType,
		})
	}

	var expenses []models.Expense
	if err := a.db.
		Where("expense_date >= ? AND expense_date < ?", from, end).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	for _, exp := range expenses {
		entries = append(entries, Entry{
			EntryDate:     exp.ExpenseDate,
			EntryType:     EntryTypeExpense,
			RecordID:      exp.ID,
			Reference:     exp.Reference,
			Description:   exp.Title,
			Amount:        -exp.Amount,
			Status:        "recorded",
			PaymentMethod: exp.PaymentMethod,
			Category:      exp.Category,
		})
	}

	sortEntries(entries)
	return entries, nil
}

// sortEntries orders newest first, record id as tiebreaker for stable
// pagination.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return entries[i].RecordID.String() < entries[j].RecordID.String()
	})
}
