package mailer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSendFailureAlert(t *testing.T) {
	fs := &fakeSender{}
	m := &alertMailer{dialer: fs, from: "bot@example.com", senderName: "PDF Bot", to: []string{"ops@example.com"}}

	err := m.SendFailureAlert(Alert{
		JobID:      "j1",
		UserID:     42,
		Feature:    "ocr",
		Tool:       "tesseract",
		Error:      "<boom>",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)

	msg := fs.sent[0]
	assert.Equal(t, []string{"ops@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"[pdf-toolbox-bot] ocr failed"}, msg.GetHeader("Subject"))

	fs.err = errors.New("smtp down")
	assert.ErrorContains(t, m.SendFailureAlert(Alert{JobID: "j2"}), "j2")
}

func TestNoopWithoutConfig(t *testing.T) {
	m := NewAlertMailer("", 587, "", "", "", []string{"ops@example.com"})
	assert.NoError(t, m.SendFailureAlert(Alert{}))
	_, ok := m.(noopMailer)
	assert.True(t, ok)
}
