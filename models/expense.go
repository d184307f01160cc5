package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is a standalone day-book debit.
type Expense struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ExpenseDate   time.Time `gorm:"index;not null"`
	Title         string    `gorm:"not null"`
	Category      string    `gorm:"default:'General'"`
	Amount        float64   `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string
	Reference     string
	Notes         string

	gorm.Model
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
