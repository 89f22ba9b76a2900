// Package mailer defines the outbound email collaborator. Template
// rendering and SMTP delivery live behind the Mailer interface; handlers
// treat delivery as best-effort and, with one exception, swallow failures.
package mailer

import (
	"fmt"
	"net/smtp"

	"quantumpartners/internal/config"
	"quantumpartners/internal/logger"
)

// Mailer sends transactional email to platform users.
type Mailer interface {
	SendActivationEmail(to, userName, activationKey string) error
	SendPasswordResetEmail(to, userName, resetLink string) error
	SendPasswordChangeAlert(to, userName string) error
	SendAdminNotification(to, userName, subject, body string) error
}

// LogMailer logs outbound mail instead of delivering it. It is the default
// when no SMTP host is configured, and what tests run against.
type LogMailer struct{}

func (LogMailer) SendActivationEmail(to, userName, activationKey string) error {
	logger.Get().Infow("activation email (not delivered)", "to", to, "user", userName)
	return nil
}

func (LogMailer) SendPasswordResetEmail(to, userName, resetLink string) error {
	logger.Get().Infow("password reset email (not delivered)", "to", to, "user", userName)
	return nil
}

func (LogMailer) SendPasswordChangeAlert(to, userName string) error {
	logger.Get().Infow("password change alert (not delivered)", "to", to, "user", userName)
	return nil
}

func (LogMailer) SendAdminNotification(to, userName, subject, body string) error {
	logger.Get().Infow("admin notification email (not delivered)", "to", to, "subject", subject)
	return nil
}

// SMTPMailer delivers plain-text mail over SMTP with the credentials from
// configuration. HTML templating is intentionally out of scope here.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer creates a mailer for the configured SMTP relay.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// FromConfig returns an SMTP mailer when a host is configured, otherwise a
// LogMailer.
func FromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.SMTPFrom, to, subject, body)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	return smtp.SendMail(addr, auth, m.cfg.SMTPFrom, []string{to}, []byte(msg))
}

func (m *SMTPMailer) SendActivationEmail(to, userName, activationKey string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour activation key is: %s\n", userName, activationKey)
	return m.send(to, "Activate your account - Quantum Partners & Co", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(to, userName, resetLink string) error {
	body := fmt.Sprintf("Hello %s,\n\nReset your password: %s\n\nThe link expires in one hour.\n", userName, resetLink)
	return m.send(to, "Password Reset Request - Quantum Partners & Co", body)
}

func (m *SMTPMailer) SendPasswordChangeAlert(to, userName string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour password was just changed. If this wasn't you, contact support immediately.\n", userName)
	return m.send(to, "Password Changed - Quantum Partners & Co", body)
}

func (m *SMTPMailer) SendAdminNotification(to, userName, subject, body string) error {
	return m.send(to, subject, fmt.Sprintf("Hello %s,\n\n%s\n", userName, body))
}
