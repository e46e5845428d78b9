package mailer

import (
	"strings"
	"testing"

	"github.com/user/turismo-go/config"
)

func TestNewSMTPSender_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewSMTPSender(nil); err == nil {
		t.Fatalf("nil config must be rejected")
	}
	if _, err := NewSMTPSender(&config.MailConfig{SMTPPort: "587", From: "a@b.c"}); err == nil {
		t.Fatalf("missing host must be rejected")
	}

	s, err := NewSMTPSender(&config.MailConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: "587",
		From:     "Tourism Portal <no-reply@example.com>",
	})
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if s == nil {
		t.Fatalf("expected a sender")
	}
}

func TestBuildPayload_TextOnly(t *testing.T) {
	t.Parallel()

	payload := string(buildPayload("from@example.com", Message{
		To:      "to@example.com",
		Subject: "Hello",
		Text:    "plain body",
	}))

	for _, want := range []string{
		"From: from@example.com\r\n",
		"To: to@example.com\r\n",
		"Subject: Hello\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
		"plain body",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q", want)
		}
	}
	if strings.Contains(payload, "multipart/alternative") {
		t.Errorf("text-only message must not be multipart")
	}
}

func TestBuildPayload_Multipart(t *testing.T) {
	t.Parallel()

	payload := string(buildPayload("from@example.com", Message{
		To:      "to@example.com",
		Subject: "Hello",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}))

	for _, want := range []string{
		"multipart/alternative",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Type: text/html; charset=utf-8",
		"plain body",
		"<p>html body</p>",
		"--" + altBoundary + "--",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q", want)
		}
	}
}

func TestPasswordResetMessage(t *testing.T) {
	t.Parallel()

	resetURL := "http://localhost:5173/reset-password/abcdef123456"
	msg := PasswordResetMessage("user@example.com", resetURL)

	if msg.To != "user@example.com" {
		t.Errorf("unexpected recipient: %q", msg.To)
	}
	if msg.Subject != "Password Reset Request" {
		t.Errorf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.Text, resetURL) {
		t.Errorf("text body must contain the reset link")
	}
	if !strings.Contains(msg.HTML, resetURL) {
		t.Errorf("html body must contain the reset link")
	}
	if !strings.Contains(msg.Text, "ignore this email") {
		t.Errorf("text body must tell unexpected recipients to ignore it")
	}
}
