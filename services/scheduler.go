package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler wires the daily automation: generate due AMC work
// orders, then dispatch reminders for tomorrow's visits in bounded
// batches. Both jobs are idempotent, so an overlapping or repeated
// trigger is harmless.
func StartScheduler(db *gorm.DB, email EmailSender, whatsapp WhatsAppSender) *cron.Cron {
	generator := NewScheduleGenerator(db)
	dispatcher := NewNotificationDispatcher(db, email, whatsapp)

	c := cron.New()

	// Run daily at 7 AM
	c.AddFunc("0 7 * * *", func() {
		if _, err := generator.GenerateDueServices(); err != nil {
			log.Printf("scheduler: generation run failed: %v", err)
		}
	})

	// Run daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		tomorrow := time.Now().AddDate(0, 0, 1)
		offset := 0
		for {
			result, err := dispatcher.DispatchReminders(tomorrow, offset, defaultDispatchBatchSize)
			if err != nil {
				log.Printf("scheduler: reminder run failed at offset %d: %v", offset, err)
				return
			}
			if !result.HasMore {
				return
			}
			offset = result.NextOffset
		}
	})

	c.Start()
	log.Println("daily scheduler started")
	return c
}
