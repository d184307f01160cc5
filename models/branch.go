package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Branch struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null"`
	Address  string
	Phone    string
	IsActive bool `gorm:"default:true"`

	Users []User `gorm:"foreignKey:BranchID"`

	gorm.Model
}

func (b *Branch) BeforeCreate(tx *gorm.DB) (err error) {
	b.ID = uuid.New()
	return
}
