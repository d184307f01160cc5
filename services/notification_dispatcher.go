package services

import (
	"log"
	"time"

	"aquacare-backend/models"
	"aquacare-backend/utils"

	"gorm.io/gorm"
)

const defaultDispatchBatchSize = 50

// NotificationDispatcher sends reminders for services scheduled on a
// target date over two independent channels, recording each channel's
// outcome on the service row. A failure on one channel never blocks or
// rolls back the other, and each service's update is its own unit of
// work.
type NotificationDispatcher struct {
	db       *gorm.DB
	email    EmailSender
	whatsapp WhatsAppSender
	clock    func() time.Time
}

func NewNotificationDispatcher(db *gorm.DB, email EmailSender, whatsapp WhatsAppSender) *NotificationDispatcher {
	return &NotificationDispatcher{
		db:       db,
		email:    email,
		whatsapp: whatsapp,
		clock:    time.Now,
	}
}

type DispatchResult struct {
	TargetDate   string `json:"targetDate"`
	StaleSkipped bool   `json:"staleSkipped"`

	TotalMatched int64 `json:"totalMatched"`
	Processed    int   `json:"processed"`
	NextOffset   int   `json:"nextOffset"`
	HasMore      bool  `json:"hasMore"`

	EmailSent    int `json:"emailSent"`
	EmailSkipped int `json:"emailSkipped"`
	EmailFailed  int `json:"emailFailed"`

	WhatsappSent    int `json:"whatsappSent"`
	WhatsappSkipped int `json:"whatsappSkipped"`
	WhatsappFailed  int `json:"whatsappFailed"`
}

// DispatchReminders processes one offset/limit batch of the services
// scheduled on targetDate. Outbound calls are slow, so callers cap the
// batch and resume from NextOffset until HasMore is false.
//
// A target date already in the past is stale: the whole run is skipped
// without a single send attempt, regardless of any prior failed
// status.
func (d *NotificationDispatcher) DispatchReminders(targetDate time.Time, offset, limit int) (DispatchResult, error) {
	day := utils.BeginningOfDay(targetDate)
	today := utils.BeginningOfDay(d.clock())

	result := DispatchResult{
		TargetDate: day.Format("2006-01-02"),
		NextOffset: offset,
	}

	if day.Before(today) {
		result.StaleSkipped = true
		log.Printf("dispatcher: target date %s already passed, skipping run", result.TargetDate)
		return result, nil
	}

	if limit <= 0 {
		limit = defaultDispatchBatchSize
	}
	if offset < 0 {
		offset = 0
	}

	query := d.db.Model(&models.Service{}).
		Where("status IN ? AND scheduled_date >= ? AND scheduled_date < ?",
			[]string{models.ServiceStatusScheduled, models.ServiceStatusAssigned},
			day, day.AddDate(0, 0, 1))

	if err := query.Count(&result.TotalMatched).Error; err != nil {
		return result, err
	}

	var due []models.Service
	if err := d.db.Preload("Customer").
		Where("status IN ? AND scheduled_date >= ? AND scheduled_date < ?",
			[]string{models.ServiceStatusScheduled, models.ServiceStatusAssigned},
			day, day.AddDate(0, 0, 1)).
		Order("scheduled_date, id").
		Offset(offset).
		Limit(limit).
		Find(&due).Error; err != nil {
		return result, err
	}

	kind := EmailKindServiceReminder
	if day.Equal(today) {
		kind = EmailKindServiceToday
	}

	for _, svc := range due {
		d.dispatchWhatsApp(&svc, day, &result)
		d.dispatchEmail(&svc, day, kind, &result)
		result.Processed++
	}

	result.NextOffset = offset + result.Processed
	result.HasMore = int64(result.NextOffset) < result.TotalMatched
	return result, nil
}

// dispatchWhatsApp attempts the WhatsApp reminder for one service and
// persists the outcome on the service's WhatsApp columns only.
func (d *NotificationDispatcher) dispatchWhatsApp(svc *models.Service, day time.Time, result *DispatchResult) {
	// sent_for_date is the de-duplication key: already sent for this
	// scheduled date means skip, not re-send. A reschedule changes the
	// date and makes the row eligible again.
	if svc.WhatsappReminderStatus == models.ReminderStatusSent &&
		svc.WhatsappReminderSentForDate != nil &&
		utils.SameDay(*svc.WhatsappReminderSentForDate, day) {
		result.WhatsappSkipped++
		return
	}

	var sendErr error
	if svc.Customer == nil || svc.Customer.Phone == "" {
		// Missing prerequisite data is a recorded failure, not a crash.
		sendErr = &missingDataError{"no phone number on file"}
	} else if !utils.ValidatePhone(svc.Customer.Phone) {
		sendErr = &missingDataError{"phone number is not a valid international number"}
	} else {
		sendErr = d.whatsapp.Send(WhatsAppMessage{
			To:            svc.Customer.Phone,
			CustomerName:  svc.Customer.Name,
			ServiceType:   svc.ServiceType,
			ScheduledDate: svc.ScheduledDate,
			TimeSlot:      svc.ScheduledTimeSlot,
		})
	}

	now := d.clock()
	var update map[string]interface{}
	if sendErr != nil {
		log.Printf("dispatcher: whatsapp reminder for service %s failed: %v", svc.ID, sendErr)
		update = map[string]interface{}{
			"whatsapp_reminder_status": models.ReminderStatusFailed,
			"whatsapp_reminder_error":  sendErr.Error(),
		}
		result.WhatsappFailed++
	} else {
		update = map[string]interface{}{
			"whatsapp_reminder_status":        models.ReminderStatusSent,
			"whatsapp_reminder_error":         "",
			"whatsapp_reminder_sent_at":       now,
			"whatsapp_reminder_sent_for_date": day,
		}
		result.WhatsappSent++
	}

	if err := d.db.Model(&models.Service{}).Where("id = ?", svc.ID).Updates(update).Error; err != nil {
		log.Printf("dispatcher: failed to record whatsapp outcome for service %s: %v", svc.ID, err)
	}
}

// dispatchEmail attempts the email reminder. The email block has no
// status column; a stamped sent_for_date is the only success marker,
// so failures simply leave the row eligible for the next run.
func (d *NotificationDispatcher) dispatchEmail(svc *models.Service, day time.Time, kind string, result *DispatchResult) {
	if svc.EmailReminderSentForDate != nil &&
		utils.SameDay(*svc.EmailReminderSentForDate, day) {
		result.EmailSkipped++
		return
	}

	if svc.Customer == nil || svc.Customer.Email == "" {
		log.Printf("dispatcher: email reminder for service %s failed: no email on file", svc.ID)
		result.EmailFailed++
		return
	}

	err := d.email.Send(kind, EmailMessage{
		To:            svc.Customer.Email,
		CustomerName:  svc.Customer.Name,
		ServiceType:   svc.ServiceType,
		ScheduledDate: svc.ScheduledDate,
		TimeSlot:      svc.ScheduledTimeSlot,
	})
	if err != nil {
		log.Printf("dispatcher: email reminder for service %s failed: %v", svc.ID, err)
		result.EmailFailed++
		return
	}

	now := d.clock()
	update := map[string]interface{}{
		"email_reminder_sent_at":       now,
		"email_reminder_sent_for_date": day,
	}
	if err := d.db.Model(&models.Service{}).Where("id = ?", svc.ID).Updates(update).Error; err != nil {
		log.Printf("dispatcher: failed to record email outcome for service %s: %v", svc.ID, err)
		result.EmailFailed++
		return
	}
	result.EmailSent++
}

type missingDataError struct {
	reason string
}

func (e *missingDataError) Error() string {
	return e.reason
}
