package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry for a water-treatment unit.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	ModelNumber string
	Description string
	Price       float64 `gorm:"type:decimal(10,2);not null"`

	WarrantyMonths            int `gorm:"default:12"`
	MaintenanceIntervalMonths int `gorm:"default:3"`

	IsActive bool `gorm:"default:true"`

	Units []CustomerProduct `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
