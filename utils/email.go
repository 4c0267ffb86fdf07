package utils

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Govind-619/ZapShift/models"
)

// Mailer sends transactional emails
type Mailer interface {
	SendPaymentConfirmation(payment *models.Payment) error
}

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from the SMTP settings
func NewSMTPMailer(config EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		from:   config.From,
	}
}

// SendPaymentConfirmation tells the sender their parcel is paid and tracked
func (m *SMTPMailer) SendPaymentConfirmation(payment *models.Payment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", payment.CustomerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Payment received - tracking %s", payment.TrackingID))
	msg.SetBody("text/html", PaymentConfirmationBody(payment))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// PaymentConfirmationBody renders the HTML body of the confirmation email
func PaymentConfirmationBody(payment *models.Payment) string {
	return fmt.Sprintf(`
		<h2>Thank you for shipping with %s!</h2>
		<p>We received your payment for <strong>%s</strong>.</p>
		<p>Amount: %s %s</p>
		<p>Your tracking ID:</p>
		<h1 style="color: #4CAF50; font-size: 28px; letter-spacing: 3px;">%s</h1>
		<p>Transaction: %s</p>
	`,
		AppName,
		html.EscapeString(payment.ParcelName),
		payment.Amount.String(),
		strings.ToUpper(payment.Currency),
		payment.TrackingID,
		html.EscapeString(payment.TransactionID),
	)
}

// NoopMailer is used when SMTP is not configured
type NoopMailer struct{}

// SendPaymentConfirmation does nothing
func (NoopMailer) SendPaymentConfirmation(*models.Payment) error {
	return nil
}
