package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AMC contract statuses
const (
	AmcStatusActive         = "active"
	AmcStatusPendingRenewal = "pending_renewal"
	AmcStatusExpired        = "expired"
	AmcStatusCancelled      = "cancelled"
)

// AmcContract is an annual maintenance contract covering one installed
// unit. The schedule generator advances NextServiceDate after each
// generated work order; renewal resets the completion counter and
// payment flag for the new period.
type AmcContract struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerProductID uuid.UUID `gorm:"type:uuid;index;not null"`

	StartDate             time.Time `gorm:"not null"`
	EndDate               time.Time `gorm:"not null"`
	ServiceIntervalMonths int       `gorm:"default:3"`
	Amount                float64   `gorm:"type:decimal(10,2);not null"`

	Status            string     `gorm:"type:varchar(20);default:'active'"`
	NextServiceDate   *time.Time `gorm:"index"`
	ServicesCompleted int        `gorm:"default:0"`
	IsPaid            bool       `gorm:"default:false"`

	CustomerProduct *CustomerProduct `gorm:"foreignKey:CustomerProductID"`
	Services        []Service        `gorm:"foreignKey:AmcContractID"`

	gorm.Model
}

func (a *AmcContract) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
