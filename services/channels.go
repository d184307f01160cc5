package services

import "time"

// Reminder kinds passed to the email channel.
const (
	EmailKindServiceReminder = "service_reminder"
	EmailKindServiceToday    = "service_today"
)

type EmailMessage struct {
	To            string
	CustomerName  string
	ServiceType   string
	ScheduledDate time.Time
	TimeSlot      string
}

type WhatsAppMessage struct {
	To            string
	CustomerName  string
	ServiceType   string
	ScheduledDate time.Time
	TimeSlot      string
}

// EmailSender and WhatsAppSender are fire-once channel collaborators.
// A nil error means the provider accepted the message; any error is a
// structured failure the dispatcher records. Implementations must bound
// their own call with a timeout; a timeout is just another failure.
type EmailSender interface {
	Send(kind string, msg EmailMessage) error
}

type WhatsAppSender interface {
	Send(msg WhatsAppMessage) error
}
