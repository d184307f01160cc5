package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint statuses
const (
	ComplaintStatusOpen       = "open"
	ComplaintStatusInProgress = "in_progress"
	ComplaintStatusResolved   = "resolved"
)

type Complaint struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerProductID *uuid.UUID `gorm:"type:uuid;index"`

	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(20);default:'open'"`

	ResolvedDate    *time.Time
	ResolutionNotes string `gorm:"type:text"`

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Services []Service `gorm:"foreignKey:ComplaintID"`

	gorm.Model
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
