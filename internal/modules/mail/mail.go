package mail

import (
	"context"
	"sync"

	"github.com/georgemunganga/storefront/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer sends through the configured SMTP relay.
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LogMailer writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	zap.S().Infow("mail not sent, SMTP disabled", "to", to, "subject", subject)
	return nil
}

// Message is a captured email.
type Message struct {
	To, Subject, Body string
}

// Outbox records messages in memory.
type Outbox struct {
	mu       sync.Mutex
	Messages []Message
}

func (o *Outbox) Send(ctx context.Context, to, subject, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Last returns the most recent message.
func (o *Outbox) Last() (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Messages) == 0 {
		return Message{}, false
	}
	return o.Messages[len(o.Messages)-1], true
}
