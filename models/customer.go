package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Phone   string `gorm:"not null;index"`
	Email   string
	Address string
	City    string
	Notes   string

	IsActive bool `gorm:"default:true"`

	Products []CustomerProduct `gorm:"foreignKey:CustomerID"`
	Services []Service         `gorm:"foreignKey:CustomerID"`
	Invoices []Invoice         `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// CustomerProduct is one installed unit of a catalog Product at a
// customer site. Warranty end is derived from the product's warranty
// length at install time and frozen on the record.
type CustomerProduct struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;index;not null"`

	SerialNumber    string `gorm:"index"`
	InstallDate     time.Time
	WarrantyEndDate time.Time
	IsActive        bool `gorm:"default:true"`

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Product  *Product  `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (cp *CustomerProduct) BeforeCreate(tx *gorm.DB) (err error) {
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	return
}
