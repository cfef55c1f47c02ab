// utils/email.go
package utils

import (
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"kindbites-api/models"
)

// EmailService sends notification emails through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
	shop   string
}

// NewEmailService initializes and returns a new EmailService instance.
func NewEmailService(apiKey, sender, shopName string) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
		shop:   shopName,
	}
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, content string) error {
	from := mail.NewEmail(es.shop, es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, content, content)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}
	return nil
}

// SendNewOrderEmail notifies the shop owner about a confirmed order.
func (es *EmailService) SendNewOrderEmail(toEmail string, order models.Order, currency string) error {
	subject := fmt.Sprintf("New Order - %s", es.shop)
	content := fmt.Sprintf(
		"New order from %s (%s):\n\n%s\n\nTotal: %s%d\n\nPlaced at %s.",
		order.CustomerName,
		order.CustomerPhone,
		order.ItemsSummary,
		currency,
		order.Total,
		order.SubmittedAt.Format("2006-01-02 15:04"),
	)
	return es.SendEmail(toEmail, subject, content)
}
