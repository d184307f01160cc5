package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quotation statuses
const (
	QuotationStatusDraft    = "draft"
	QuotationStatusSent     = "sent"
	QuotationStatusAccepted = "accepted"
	QuotationStatusRejected = "rejected"
	QuotationStatusExpired  = "expired"
)

// Quotation is a pre-invoice estimate with the same totals invariant as
// Invoice.
type Quotation struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	QuotationNumber string    `gorm:"uniqueIndex;not null"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	QuotationDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	ValidUntil      *time.Time

	Subtotal       float64 `gorm:"type:decimal(10,2);not null"`
	TaxAmount      float64 `gorm:"type:decimal(10,2);default:0.0"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null"`

	Status string `gorm:"type:varchar(20);default:'draft'"`
	Notes  string

	Items []QuotationItem `gorm:"foreignKey:QuotationID"`

	gorm.Model
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

type QuotationItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	QuotationID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index"`
	Description string     `gorm:"not null"`
	Quantity    int        `gorm:"default:1"`
	UnitPrice   float64    `gorm:"type:decimal(10,2);not null"`
	TotalPrice  float64    `gorm:"type:decimal(10,2);not null"`
}

func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) (err error) {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return
}
