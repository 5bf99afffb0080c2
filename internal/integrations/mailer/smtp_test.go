package mailer

import (
	"bytes"
	"testing"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	assert.False(t, NewSMTPMailer(Config{}).Enabled())
	assert.False(t, NewSMTPMailer(Config{Host: "smtp.example.com"}).Enabled())
	assert.True(t, NewSMTPMailer(Config{Host: "smtp.example.com", From: "me@example.com"}).Enabled())

	var nilMailer *SMTPMailer
	assert.False(t, nilMailer.Enabled())
}

func TestSend_Disabled(t *testing.T) {
	err := NewSMTPMailer(Config{}).Send(t.Context(), "a@b.c", "hi", "body")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestBuildMessage(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.example.com", Port: 587, From: "billing@example.com"})

	msg, err := m.buildMessage(" client@example.com ", "Invoice INV-2026-0001", "Please find your invoice.")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Invoice INV-2026-0001")
	assert.Contains(t, raw, "<client@example.com>")
	assert.Contains(t, raw, "Please find your invoice.")
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.example.com", From: "billing@example.com"})
	_, err := m.buildMessage("not-an-address", "s", "b")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestClientOptions_AuthOnlyWithUsername(t *testing.T) {
	anon := NewSMTPMailer(Config{Host: "h", Port: 25, From: "f@x.y"})
	authed := NewSMTPMailer(Config{Host: "h", Port: 587, From: "f@x.y", Username: "u", Password: "p"})
	assert.Len(t, anon.clientOptions(), 3)
	assert.Len(t, authed.clientOptions(), 6)
}
