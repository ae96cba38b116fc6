// Package contact delivers messages from the portfolio contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Message is a contact form submission. The binding tags are checked by gin
// before a Message reaches a Mailer.
type Message struct {
	Name  string `form:"fullName" json:"name" binding:"required,max=200"`
	Email string `form:"email" json:"email" binding:"required,email,max=320"`
	Body  string `form:"message" json:"message" binding:"required,max=5000"`
}

// Mailer sends contact messages somewhere a human will read them.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig holds the outgoing server settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends messages with PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	send SendFunc
	log  *slog.Logger
}

// NewSMTPMailer returns a mailer using net/smtp. A nil send uses smtp.SendMail.
func NewSMTPMailer(cfg SMTPConfig, send SendFunc, log *slog.Logger) *SMTPMailer {
	if send == nil {
		send = smtp.SendMail
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTPMailer{cfg: cfg, send: send, log: log}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.To}, Compose(m.cfg.User, m.cfg.To, msg)); err != nil {
		m.log.Error("sending contact email", "error", err)
		return fmt.Errorf("sending contact email: %w", err)
	}

	m.log.Info("contact email sent", "name", msg.Name)
	return nil
}

// Compose builds the plain-text email for msg.
func Compose(from, to string, msg Message) []byte {
	name := oneLine(msg.Name)
	replyTo := oneLine(msg.Email)

	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Portfolio Contact: " + name + "\r\n")
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("Reply-To: " + replyTo + "\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "New contact form submission from your portfolio:\r\n\r\nName: %s\r\nEmail: %s\r\nMessage:\r\n%s\r\n\r\n---\r\nSent from your portfolio contact form\r\n",
		name, replyTo, msg.Body)
	return []byte(b.String())
}

// oneLine keeps user input from injecting extra headers.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
