package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service types
const (
	ServiceTypeAmc          = "amc_service"
	ServiceTypePaid         = "paid_service"
	ServiceTypeInstallation = "installation"
	ServiceTypeComplaint    = "complaint_service"
	ServiceTypeWarranty     = "warranty_service"
	ServiceTypeFree         = "free_service"
)

// Service statuses. StatusOverdue is a read-time projection and is
// never written to the status column.
const (
	ServiceStatusScheduled   = "scheduled"
	ServiceStatusAssigned    = "assigned"
	ServiceStatusInProgress  = "in_progress"
	ServiceStatusCompleted   = "completed"
	ServiceStatusCancelled   = "cancelled"
	ServiceStatusRescheduled = "rescheduled"
	ServiceStatusOverdue     = "overdue"
)

// WhatsApp reminder statuses
const (
	ReminderStatusPending = "pending"
	ReminderStatusSent    = "sent"
	ReminderStatusFailed  = "failed"
)

// Service is a single scheduled or completed work order. Rows are never
// hard-deleted; the delete endpoint is permanently disabled to keep the
// service history auditable.
type Service struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	CustomerProductID *uuid.UUID `gorm:"type:uuid;index"`
	AmcContractID     *uuid.UUID `gorm:"type:uuid;index"`
	ComplaintID       *uuid.UUID `gorm:"type:uuid;index"`

	ServiceType       string    `gorm:"type:varchar(30);not null"`
	ScheduledDate     time.Time `gorm:"index;not null"`
	ScheduledTimeSlot string

	Status               string     `gorm:"type:varchar(20);default:'scheduled'"`
	AssignedTechnicianID *uuid.UUID `gorm:"type:uuid;index"`

	// Completion fields, set together when the visit is closed out.
	// TotalAmount must equal PartsCost + ServiceCharge; any discount is
	// applied to ServiceCharge before persistence.
	CompletedDate *time.Time
	WorkDone      string
	PartsCost     float64 `gorm:"type:decimal(10,2);default:0.0"`
	ServiceCharge float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount   float64 `gorm:"type:decimal(10,2);default:0.0"`
	PaymentStatus string  `gorm:"type:varchar(20);default:'pending'"`

	// Email reminder tracking. SentForDate is the de-duplication key so
	// a reschedule makes the service eligible for a fresh reminder.
	EmailReminderSentAt      *time.Time
	EmailReminderSentForDate *time.Time

	// WhatsApp reminder tracking, independent of the email block.
	WhatsappReminderStatus      string `gorm:"type:varchar(20);default:'pending'"`
	WhatsappReminderError       string `gorm:"type:text"`
	WhatsappReminderSentAt      *time.Time
	WhatsappReminderSentForDate *time.Time

	Customer           *Customer        `gorm:"foreignKey:CustomerID"`
	CustomerProduct    *CustomerProduct `gorm:"foreignKey:CustomerProductID"`
	AmcContract        *AmcContract     `gorm:"foreignKey:AmcContractID"`
	AssignedTechnician *User            `gorm:"foreignKey:AssignedTechnicianID"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
