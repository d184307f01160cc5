package services

import (
	"fmt"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"aquacare-backend/apperrors"
)

// TwilioWhatsAppSender sends service reminders over the Twilio
// WhatsApp API.
type TwilioWhatsAppSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioWhatsAppSender() *TwilioWhatsAppSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioWhatsAppSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

func (s *TwilioWhatsAppSender) Send(msg WhatsAppMessage) error {
	body := fmt.Sprintf(
		"Dear %s, this is a reminder for your %s visit scheduled on %s.",
		msg.CustomerName,
		reminderServiceLabel(msg.ServiceType),
		msg.ScheduledDate.Format("02 Jan 2006"),
	)
	if msg.TimeSlot != "" {
		body += fmt.Sprintf(" Preferred slot: %s.", msg.TimeSlot)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + msg.To)
	params.SetFrom("whatsapp:" + s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return &apperrors.ChannelError{Channel: "whatsapp", Reason: err.Error()}
	}
	if resp.Sid == nil {
		return &apperrors.ChannelError{Channel: "whatsapp", Reason: "no message SID returned"}
	}
	return nil
}

func reminderServiceLabel(serviceType string) string {
	switch serviceType {
	case "amc_service":
		return "AMC maintenance"
	case "installation":
		return "installation"
	case "complaint_service":
		return "complaint service"
	case "warranty_service":
		return "warranty service"
	case "free_service":
		return "free service"
	default:
		return "service"
	}
}
