package services

import (
	"fmt"
	"net/smtp"
	"os"

	"aquacare-backend/apperrors"
)

// SMTPEmailSender sends reminder emails through a plain SMTP relay.
type SMTPEmailSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPEmailSender() *SMTPEmailSender {
	return &SMTPEmailSender{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("SMTP_FROM"),
	}
}

func (s *SMTPEmailSender) Send(kind string, msg EmailMessage) error {
	if s.host == "" {
		return &apperrors.ChannelError{Channel: "email", Reason: "SMTP_HOST not configured"}
	}

	subject := "Service reminder"
	lead := fmt.Sprintf("Your %s visit is scheduled for %s.",
		reminderServiceLabel(msg.ServiceType),
		msg.ScheduledDate.Format("02 Jan 2006"))
	if kind == EmailKindServiceToday {
		subject = "Service visit today"
		lead = fmt.Sprintf("Our technician will visit today for your %s.",
			reminderServiceLabel(msg.ServiceType))
	}
	if msg.TimeSlot != "" {
		lead += fmt.Sprintf(" Preferred slot: %s.", msg.TimeSlot)
	}

	body := fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\nDear %s,\r\n\r\n%s\r\n",
		msg.To, subject, msg.CustomerName, lead)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{msg.To}, []byte(body)); err != nil {
		return &apperrors.ChannelError{Channel: "email", Reason: err.Error()}
	}
	return nil
}
