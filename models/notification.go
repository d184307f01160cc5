package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app read/unread flag with a back-reference to
// the related record. It is display-only and carries no delivery
// semantics.
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title       string `gorm:"not null"`
	Message     string `gorm:"type:text"`
	RelatedType string `gorm:"type:varchar(30)"` // service, invoice, amc_contract, complaint
	RelatedID   *uuid.UUID `gorm:"type:uuid"`
	IsRead      bool   `gorm:"default:false"`

	gorm.Model
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
