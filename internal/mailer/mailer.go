// Package mailer delivers contact form submissions.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Message struct {
	Name    string
	Email   string
	Message string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTP struct {
	cfg  SMTPConfig
	send SendFunc
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.send(addr, auth, s.cfg.User, []string{s.cfg.To}, Compose(s.cfg.User, s.cfg.To, m)); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

// Compose builds the raw message. Header values are stripped of line
// breaks so a submitter cannot inject headers.
func Compose(from, to string, m Message) []byte {
	name := headerSafe(m.Name)
	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, m.Email, m.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
