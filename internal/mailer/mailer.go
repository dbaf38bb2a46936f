// Package mailer abstracts outbound email as a capability: send a message
// to an address with a subject and an HTML body. The reset flow depends on
// the interface so tests can record sends instead of dialing SMTP.
package mailer

import (
    "errors"
    "log"

    "gopkg.in/gomail.v2"

    "github.com/iliyamo/shoply/internal/config"
)

// Mailer delivers a single HTML email.
type Mailer interface {
    Send(to, subject, html string) error
}

// SMTPMailer delivers mail through a plain SMTP transport.
type SMTPMailer struct {
    dialer *gomail.Dialer
    from   string
}

// NewSMTPMailer builds a mailer from SMTP settings. When no host is
// configured it returns a LogMailer so local development works without a
// mail server.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
    if cfg.Host == "" {
        return LogMailer{}
    }
    return &SMTPMailer{
        dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
        from:   cfg.From,
    }
}

func (m *SMTPMailer) Send(to, subject, html string) error {
    if to == "" {
        return errors.New("empty recipient")
    }
    msg := gomail.NewMessage()
    msg.SetHeader("From", m.from)
    msg.SetHeader("To", to)
    msg.SetHeader("Subject", subject)
    msg.SetBody("text/html", html)
    return m.dialer.DialAndSend(msg)
}

// LogMailer writes deliveries to the process log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(to, subject, _ string) error {
    log.Printf("mailer: dropping mail to=%s subject=%q (no SMTP host configured)", to, subject)
    return nil
}
