package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"talent-marketplace-backend/config"
)

// EmailService sends notification copies via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NotificationEmailData holds the data for notification emails
type NotificationEmailData struct {
	Title   string
	Message string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		sendMail:  smtp.SendMail,
	}
}

var notificationTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>{{.Title}}</h1></div>
        <div class="content"><p>{{.Message}}</p></div>
        <div class="footer">
            <p>You received this email because of activity on your candidate profile.</p>
        </div>
    </div>
</body>
</html>`))

// RenderNotification builds the MIME message for one recipient.
func (s *EmailService) RenderNotification(to string, data NotificationEmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := notificationTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		data.Title,
		body.String(),
	))
	return msg, nil
}

// SendNotification emails a copy of an in-app notification.
func (s *EmailService) SendNotification(to string, data NotificationEmailData) error {
	if !s.IsConfigured() {
		return fmt.Errorf("smtp is not configured")
	}

	msg, err := s.RenderNotification(to, data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.sendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
