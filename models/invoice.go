package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses shared by invoices and completed services
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Invoice is immutable once created except for payment recording.
// Deletion is permanently disabled. AmountPaid + BalanceDue always
// equals TotalAmount.
type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID     *uuid.UUID `gorm:"type:uuid;index"`
	QuotationID   *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceDate   time.Time  `gorm:"index;default:CURRENT_TIMESTAMP"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null"`
	TaxAmount      float64 `gorm:"type:decimal(10,2);default:0.0"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null"`

	AmountPaid    float64 `gorm:"type:decimal(10,2);default:0.0"`
	BalanceDue    float64 `gorm:"type:decimal(10,2);default:0.0"`
	PaymentStatus string  `gorm:"type:varchar(20);default:'pending'"`
	PaymentMethod string
	Notes         string

	Customer *Customer     `gorm:"foreignKey:CustomerID"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type InvoiceItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index"`
	Description string     `gorm:"not null"`
	Quantity    int        `gorm:"default:1"`
	UnitPrice   float64    `gorm:"type:decimal(10,2);not null"`
	TotalPrice  float64    `gorm:"type:decimal(10,2);not null"`
}

func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return
}
