package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"tradedesk/internal/common"
)

func TestSendSmtpValidate(t *testing.T) {
	err := SendSmtpOpts{}.Validate()
	if !errors.Is(err, ErrorInvalidInput) {
		t.Fatalf("expected ErrorInvalidInput, got %v", err)
	}
	for _, expected := range []string{"missing receivers", "missing sender address", "missing smtp hostname"} {
		if !strings.Contains(err.Error(), expected) {
			t.Errorf("expected error to contain %q", expected)
		}
	}
}

func TestSendSmtpComposesAndSends(t *testing.T) {
	var capturedFrom string
	var capturedTo []string
	var capturedMessage []byte
	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		capturedFrom = from
		capturedTo = to
		capturedMessage = msg
		return nil
	}
	defer func() { sendMail = smtp.SendMail }()

	err := SendSmtp(SendSmtpOpts{
		To:      []User{{Address: "a@example.com", Name: "A"}},
		Bcc:     []User{{Address: "b@example.com"}},
		Sender:  User{Address: "noreply@example.com"},
		Smtp:    SmtpConfig{Hostname: "localhost", Port: 25},
		Message: Message{Title: "Hello", Body: []byte("<p>hi</p>")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if capturedFrom != "noreply@example.com" {
		t.Fatalf("unexpected from: %s", capturedFrom)
	}
	if len(capturedTo) != 2 {
		t.Fatalf("expected bcc to be included in recipients, got %v", capturedTo)
	}
	message := string(capturedMessage)
	if !strings.Contains(message, "Subject: Hello") || !strings.Contains(message, "To: A <a@example.com>") {
		t.Fatalf("unexpected message headers:\n%s", message)
	}
	if strings.Contains(message, "b@example.com") {
		t.Fatalf("bcc recipients must not appear in headers")
	}
}

func TestSendSmtpWrapsSendErrors(t *testing.T) {
	sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	defer func() { sendMail = smtp.SendMail }()

	err := SendSmtp(SendSmtpOpts{
		To:      []User{{Address: "a@example.com"}},
		Sender:  User{Address: "noreply@example.com"},
		Smtp:    SmtpConfig{Hostname: "localhost", Port: 25},
		Message: Message{Title: "Hello", Body: []byte("hi")},
	})
	if !errors.Is(err, ErrorSendFailed) {
		t.Fatalf("expected ErrorSendFailed, got %v", err)
	}
}

func TestNewSenderFallsBackToLogs(t *testing.T) {
	sender := NewSender(SmtpConfig{}, User{}, common.GetNoopServiceLog())
	if _, ok := sender.(*LogSender); !ok {
		t.Fatalf("expected a LogSender, got %T", sender)
	}
	if err := sender.Send(context.Background(), Outgoing{To: []User{{Address: "a@example.com"}}, Title: "t", Body: "b"}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestParseUser(t *testing.T) {
	user, err := ParseUser("Tradedesk <noreply@tradedesk.local>")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if user.Name != "Tradedesk" || user.Address != "noreply@tradedesk.local" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestRenderHtmlEscapes(t *testing.T) {
	if got := renderHtml("<b>", "a & b"); !strings.Contains(got, "&lt;b&gt;") || !strings.Contains(got, "a &amp; b") {
		t.Fatalf("expected escaped html, got %s", got)
	}
}
