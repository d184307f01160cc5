package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The full schema must migrate on sqlite, which the test suites use as
// their store. Keeps postgres-only column defaults from creeping into
// the gorm tags; IDs come from the BeforeCreate hooks, not the
// database.
func TestAutoMigrateOnSqlite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&User{},
		&Branch{},
		&Customer{},
		&Product{},
		&CustomerProduct{},
		&AmcContract{},
		&Service{},
		&Complaint{},
		&Invoice{},
		&InvoiceItem{},
		&Quotation{},
		&QuotationItem{},
		&Expense{},
		&Notification{},
	))

	customer := Customer{
		CreatedByUserID: uuid.New(),
		Name:            "Asha Nair",
		Phone:           "+919812345678",
		IsActive:        true,
	}
	require.NoError(t, db.Create(&customer).Error)
	require.NotEqual(t, uuid.Nil, customer.ID)

	user := User{
		Email:    "tech@aquacare.test",
		Password: "field-pass-123",
		Name:     "Ravi Kumar",
		Role:     "technician",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotEqual(t, uuid.Nil, user.ID)
}
