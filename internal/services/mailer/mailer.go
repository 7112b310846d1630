package mailer

import (
	"context"
	"fmt"
	"strings"

	"cennik/internal/config"
	"cennik/internal/logger"

	"gopkg.in/gomail.v2"
)

type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer, or a log-only mailer when SMTP_HOST is unset.
func New(cfg *config.Config, log *logger.Logger) Mailer {
	if cfg.SMTPHost == "" {
		log.Info("SMTP_HOST not set, emails will only be logged")
		return NewLogMailer(log)
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
		logger: log,
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients for %q", msg.Subject)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email %q: %w", msg.Subject, err)
	}
	m.logger.Info("Email sent: %q to %s", msg.Subject, strings.Join(msg.To, ", "))
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients for %q", msg.Subject)
	}
	m.logger.Info("Email (not sent): to=%s subject=%q\n%s", strings.Join(msg.To, ", "), msg.Subject, msg.Body)
	return nil
}
