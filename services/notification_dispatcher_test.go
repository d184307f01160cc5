package services

import (
	"errors"
	"testing"
	"time"

	"aquacare-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockEmailSender struct {
	sent []EmailMessage
	fail error
}

func (m *mockEmailSender) Send(kind string, msg EmailMessage) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockWhatsAppSender struct {
	sent []WhatsAppMessage
	fail error
}

func (m *mockWhatsAppSender) Send(msg WhatsAppMessage) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

func seedScheduledService(t *testing.T, db *gorm.DB, customer models.Customer, scheduled time.Time) models.Service {
	t.Helper()

	svc := models.Service{
		CustomerID:    customer.ID,
		ServiceType:   models.ServiceTypeAmc,
		ScheduledDate: scheduled,
		Status:        models.ServiceStatusScheduled,
	}
	require.NoError(t, db.Create(&svc).Error)
	return svc
}

func seedReminderCustomer(t *testing.T, db *gorm.DB, phone, email string) models.Customer {
	t.Helper()

	customer := models.Customer{
		Name:  "Meena Sharma",
		Phone: phone,
		Email: email,
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func newTestDispatcher(db *gorm.DB, now time.Time) (*NotificationDispatcher, *mockEmailSender, *mockWhatsAppSender) {
	email := &mockEmailSender{}
	whatsapp := &mockWhatsAppSender{}
	d := NewNotificationDispatcher(db, email, whatsapp)
	d.clock = fixedClock(now)
	return d, email, whatsapp
}

func TestDispatchSendsBothChannels(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "+919876543210", "meena@example.com")
	svc := seedScheduledService(t, db, customer, tomorrow)

	d, email, whatsapp := newTestDispatcher(db, now)

	result, err := d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalMatched)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.WhatsappSent)
	assert.Equal(t, 1, result.EmailSent)
	assert.False(t, result.HasMore)

	require.Len(t, whatsapp.sent, 1)
	assert.Equal(t, "+919876543210", whatsapp.sent[0].To)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "meena@example.com", email.sent[0].To)

	var updated models.Service
	require.NoError(t, db.First(&updated, "id = ?", svc.ID).Error)
	assert.Equal(t, models.ReminderStatusSent, updated.WhatsappReminderStatus)
	assert.Empty(t, updated.WhatsappReminderError)
	require.NotNil(t, updated.WhatsappReminderSentForDate)
	assert.True(t, updated.WhatsappReminderSentForDate.Equal(tomorrow))
	require.NotNil(t, updated.EmailReminderSentForDate)
	assert.True(t, updated.EmailReminderSentForDate.Equal(tomorrow))
}

func TestDispatchSkipsAlreadySent(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "+919876543210", "meena@example.com")
	seedScheduledService(t, db, customer, tomorrow)

	d, email, whatsapp := newTestDispatcher(db, now)

	_, err := d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)

	// Repeated run for the same date skips, never re-sends.
	result, err := d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WhatsappSkipped)
	assert.Equal(t, 1, result.EmailSkipped)
	assert.Equal(t, 0, result.WhatsappSent)
	assert.Equal(t, 0, result.EmailSent)
	assert.Len(t, whatsapp.sent, 1)
	assert.Len(t, email.sent, 1)
}

func TestDispatchResendsAfterReschedule(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "+919876543210", "meena@example.com")
	svc := seedScheduledService(t, db, customer, tomorrow)

	d, _, whatsapp := newTestDispatcher(db, now)

	_, err := d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)
	require.Len(t, whatsapp.sent, 1)

	// Reschedule moves the date; the old sent_for_date stamp no longer
	// matches, so the new date gets its own reminder.
	newDate := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Service{}).
		Where("id = ?", svc.ID).
		Update("scheduled_date", newDate).Error)

	result, err := d.DispatchReminders(newDate, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WhatsappSent)
	assert.Len(t, whatsapp.sent, 2)
}

func TestDispatchRecordsChannelFailureIndependently(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "+919876543210", "meena@example.com")
	svc := seedScheduledService(t, db, customer, tomorrow)

	d, email, whatsapp := newTestDispatcher(db, now)
	whatsapp.fail = errors.New("provider unavailable")

	result, err := d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WhatsappFailed)
	// the email channel is unaffected by the WhatsApp failure
	assert.Equal(t, 1, result.EmailSent)
	assert.Len(t, email.sent, 1)

	var updated models.Service
	require.NoError(t, db.First(&updated, "id = ?", svc.ID).Error)
	assert.Equal(t, models.ReminderStatusFailed, updated.WhatsappReminderStatus)
	assert.Equal(t, "provider unavailable", updated.WhatsappReminderError)
	assert.Nil(t, updated.WhatsappReminderSentForDate)

	// A failed record stays eligible: the next run retries and the
	// success clears the prior error.
	whatsapp.fail = nil
	result, err = d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WhatsappSent)

	require.NoError(t, db.First(&updated, "id = ?", svc.ID).Error)
	assert.Equal(t, models.ReminderStatusSent, updated.WhatsappReminderStatus)
	assert.Empty(t, updated.WhatsappReminderError)
}

func TestDispatchMissingPhoneIsRecordedFailure(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "", "meena@example.com")
	svc := seedScheduledService(t, db, customer, tomorrow)

	d, _, whatsapp := newTestDispatcher(db, now)

	result, err := d.DispatchReminders(tomorrow, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WhatsappFailed)
	assert.Empty(t, whatsapp.sent)

	var updated models.Service
	require.NoError(t, db.First(&updated, "id = ?", svc.ID).Error)
	assert.Equal(t, models.ReminderStatusFailed, updated.WhatsappReminderStatus)
	assert.Equal(t, "no phone number on file", updated.WhatsappReminderError)
}

func TestDispatchStaleDateSkipsEntirely(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	past := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "+919876543210", "meena@example.com")
	svc := seedScheduledService(t, db, customer, past)

	// Prior failed attempt must not be retried once the date has
	// passed.
	require.NoError(t, db.Model(&models.Service{}).
		Where("id = ?", svc.ID).
		Update("whatsapp_reminder_status", models.ReminderStatusFailed).Error)

	d, email, whatsapp := newTestDispatcher(db, now)

	result, err := d.DispatchReminders(past, 0, 10)
	require.NoError(t, err)
	assert.True(t, result.StaleSkipped)
	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, whatsapp.sent)
	assert.Empty(t, email.sent)
}

func TestDispatchPagination(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	customer := seedReminderCustomer(t, db, "+919876543210", "meena@example.com")
	for i := 0; i < 3; i++ {
		seedScheduledService(t, db, customer, tomorrow)
	}

	d, _, _ := newTestDispatcher(db, now)

	first, err := d.DispatchReminders(tomorrow, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.TotalMatched)
	assert.Equal(t, 2, first.Processed)
	assert.Equal(t, 2, first.NextOffset)
	assert.True(t, first.HasMore)

	second, err := d.DispatchReminders(tomorrow, first.NextOffset, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Processed)
	assert.False(t, second.HasMore)
}
