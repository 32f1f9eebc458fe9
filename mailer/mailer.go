package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/7499karthik/suvidhaa/config"
)

// Mailer sends transactional mail over SMTP. New returns nil when SMTP is
// not configured, and a nil Mailer silently drops every message, so callers
// never branch on whether mail is available.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) *Mailer {
	if !cfg.SMTPConfigured() {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass),
		from:   cfg.EmailUser,
	}
}

// Send delivers a single HTML message. Safe on a nil Mailer.
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}
