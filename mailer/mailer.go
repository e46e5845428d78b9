// Package mailer delivers outbound mail. The only message the application
// sends today is the password-reset link, but the Sender interface keeps the
// transport swappable and lets tests substitute a recording fake.
//
// The SMTP sender is constructed once at startup and injected; there is no
// lazily-initialized global transport.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/user/turismo-go/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message. Implementations must not reveal recipient
// existence to callers beyond a generic delivery error.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	cfg *config.MailConfig
}

// NewSMTPSender validates the configuration and returns a ready sender.
func NewSMTPSender(cfg *config.MailConfig) (*SMTPSender, error) {
	if cfg == nil || cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.From == "" {
		return nil, errors.New("invalid SMTP mail configuration")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers msg via smtp.SendMail. When both Text and HTML bodies are
// present a multipart/alternative payload is emitted so mail clients can pick.
func (s *SMTPSender) Send(msg Message) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)

	payload := buildPayload(s.cfg.From, msg)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

const altBoundary = "=_turismo_alt_boundary"

func buildPayload(from string, msg Message) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n",
		from, msg.To, msg.Subject)

	if msg.HTML == "" {
		return []byte(headers +
			"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
			msg.Text + "\r\n")
	}

	body := headers +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", altBoundary) +
		"--" + altBoundary + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		msg.Text + "\r\n" +
		"--" + altBoundary + "\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n\r\n" +
		msg.HTML + "\r\n" +
		"--" + altBoundary + "--\r\n"
	return []byte(body)
}

// PasswordResetMessage composes the recovery email around the reset link.
// The wording mirrors what the frontend's forgot-password page tells users to
// expect: the link is valid for one hour and can be ignored safely.
func PasswordResetMessage(to, resetURL string) Message {
	text := "You are receiving this email because you (or someone else) requested a password reset for your account.\n\n" +
		"Please click the following link, or paste it into your browser, to complete the process (valid for one hour):\n\n" +
		resetURL + "\n\n" +
		"If you did not request this, ignore this email and your password will remain unchanged.\n"
	html := "<p>You are receiving this email because you (or someone else) requested a password reset for your account.</p>" +
		"<p>Please click the following link, or paste it into your browser, to complete the process (valid for one hour):</p>" +
		fmt.Sprintf("<p><a href=%q>%s</a></p>", resetURL, resetURL) +
		"<p>If you did not request this, ignore this email and your password will remain unchanged.</p>"

	return Message{
		To:      to,
		Subject: "Password Reset Request",
		Text:    text,
		HTML:    html,
	}
}
