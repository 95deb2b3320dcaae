package mailer

import (
	"fmt"
	"log"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers outbound notifications. The reset flow treats delivery as
// fire-and-forget, so implementations must not block for long.
type Mailer interface {
	SendResetLink(to, link string) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg config.EmailConfig
}

func New(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendResetLink(to, link string) error {
	if !m.cfg.Enabled {
		log.Printf("email disabled, reset link for %s: %s", to, link)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Link")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Hello,</p>
		<p>You requested to reset your password.</p>
		<p><a href="%s">Click here to reset your password</a></p>
		<p>This link will expire in 15 minutes.</p>
	`, link))

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
