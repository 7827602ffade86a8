package mailer

import "github.com/materes/reservations/pkg/logger"

// DevMailer logs outgoing mail instead of sending it, so the service
// runs without SMTP or MailerSend credentials.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("📧 [DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"body", text,
	)
	return "dev", nil
}
