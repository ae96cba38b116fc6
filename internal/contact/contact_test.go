package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCompose(t *testing.T) {
	raw := string(Compose("bot@example.com", "me@example.com", Message{
		Name:  "Ada\r\nBcc: everyone@example.com",
		Email: "ada@example.com",
		Body:  "Hello there",
	}))

	headers, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "To: me@example.com\r\n"+
		"Subject: Portfolio Contact: Ada Bcc: everyone@example.com\r\n"+
		"From: bot@example.com\r\n"+
		"Reply-To: ada@example.com", headers)
	assert.Contains(t, body, "Message:\r\nHello there")
}

func TestSMTPMailer_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	send := func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo = addr, from, to
		return nil
	}

	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: "587", User: "bot@example.com", Pass: "pw"}, send, discard)
	require.NoError(t, m.Send(context.Background(), Message{Name: "Ada", Email: "ada@example.com", Body: "hi"}))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"bot@example.com"}, gotTo, "recipient defaults to the sender")
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "h", Port: "25"}, nil, discard)
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNotConfigured)

	boom := errors.New("connection refused")
	m = NewSMTPMailer(SMTPConfig{Host: "h", Port: "25", User: "u", Pass: "p", To: "t"},
		func(string, smtp.Auth, string, []string, []byte) error { return boom }, discard)
	assert.ErrorIs(t, m.Send(context.Background(), Message{Name: "x"}), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{}), context.Canceled)
}
