package email

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestEmailService_SendEmailVerification(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewEmailService(mailer, "Storefront")
	link := "https://shop.example.com/verify-email?token=abc.def.ghi"

	err := svc.SendEmailVerification(context.Background(), "a@x.com", "Alice", link, 6*time.Hour)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "Confirm your email address", msg.Subject)
	assert.Contains(t, msg.HTML, `href="`+link+`"`)
	assert.Contains(t, msg.HTML, "Hi Alice,")
	assert.Contains(t, msg.HTML, "expires in 6 hours")
	assert.Contains(t, msg.HTML, "Storefront")
}

func TestEmailService_SendPasswordReset(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewEmailService(mailer, "Storefront")

	err := svc.SendPasswordReset(context.Background(), "a@x.com", "Alice", "https://shop/reset-password?token=t", time.Hour)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Reset your password", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "expires in 1 hour.")
}

func TestEmailService_SendWelcome(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewEmailService(mailer, "Storefront")

	err := svc.SendWelcome(context.Background(), "a@x.com", "Alice", "https://shop/login")
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Welcome to Storefront", mailer.sent[0].Subject)
	assert.NotContains(t, mailer.sent[0].HTML, "expires in")
}

func TestEmailService_MailerError(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewEmailService(&recordingMailer{err: cause}, "Storefront")

	err := svc.SendWelcome(context.Background(), "a@x.com", "Alice", "https://shop/login")
	assert.ErrorIs(t, err, cause)
}

func TestRenderTemplate_EscapesUserName(t *testing.T) {
	html, err := RenderTemplate(TemplateWelcome, TemplateData{AppName: "Shop", UserName: "<script>"})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderTemplate_Unknown(t *testing.T) {
	_, err := RenderTemplate(TemplateType("nope"), TemplateData{})
	assert.Error(t, err)
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "6 hours", HumanizeDuration(6*time.Hour))
	assert.Equal(t, "1 hour", HumanizeDuration(time.Hour))
	assert.Equal(t, "30 minutes", HumanizeDuration(30*time.Minute))
	assert.Equal(t, "", HumanizeDuration(0))
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	err := m.Send(context.Background(), Message{
		To:      "a@x.com",
		Subject: "Reset your password",
		HTML:    `<a href="https://shop/reset-password?token=t1">x</a>`,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "email delivery simulated")
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "https://shop/reset-password?token=t1")
}

func TestLogMailer_NoRecipient(t *testing.T) {
	err := NewLogMailer(nil).Send(context.Background(), Message{To: " "})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSMTPClient_BuildMessage(t *testing.T) {
	c := NewSMTPClient(Config{Host: "smtp.example.com", From: "no-reply@example.com", FromName: "Storefront"})
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	raw := string(c.buildMessage(Message{To: "a@x.com", Subject: "Hello", HTML: "<p>body</p>"}))

	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, "<p>body</p>", body)
	assert.True(t, strings.HasPrefix(headers, "From: Storefront <no-reply@example.com>\r\nTo: a@x.com\r\nSubject: Hello\r\n"))
	assert.Contains(t, headers, "Date: Tue, 02 Jan 2024 03:04:05 +0000")
	assert.Contains(t, headers, `Content-Type: text/html; charset="utf-8"`)
}

func TestSMTPClient_NoRecipient(t *testing.T) {
	err := NewSMTPClient(Config{Host: "localhost", Port: 1}).Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipient)
}
