package notification

import (
	"fmt"
	"net/smtp"
)

// EmailConfig holds SMTP settings for transactional email.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService sends transactional email over SMTP.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new EmailService.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendWelcomeEmail greets a freshly registered company admin.
func (s *EmailService) SendWelcomeEmail(to, companyName string) error {
	subject := "Welcome to Veltasoft"
	body := fmt.Sprintf(`<html><body>
		<h2>Welcome aboard!</h2>
		<p>Your workspace for <strong>%s</strong> is ready.</p>
		<p>Finish checkout to activate your subscription, then sign in with the
		email address you registered with.</p>
		<p>Questions? Just reply to this email.</p>
	</body></html>`, companyName)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
