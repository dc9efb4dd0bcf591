package mailer

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

// Alert describes a failed operation worth an email to the operators.
type Alert struct {
	JobID      string
	UserID     int64
	Feature    string
	Tool       string
	Error      string
	OccurredAt time.Time
}

type IAlertMailer interface {
	SendFailureAlert(alert Alert) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type alertMailer struct {
	dialer     sender
	from       string
	senderName string
	to         []string
}

// NewAlertMailer returns a mailer that emails every address in to. With no
// SMTP host or no recipients it returns a mailer that does nothing.
func NewAlertMailer(host string, port int, username, password, senderName string, to []string) IAlertMailer {
	if host == "" || len(to) == 0 {
		return noopMailer{}
	}
	return &alertMailer{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       username,
		senderName: senderName,
		to:         to,
	}
}

func (s *alertMailer) SendFailureAlert(a Alert) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", fmt.Sprintf("[pdf-toolbox-bot] %s failed", a.Feature))

	tool := a.Tool
	if tool == "" {
		tool = "-"
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Operation failed</h2>
			<table>
				<tr><td>Job</td><td>%s</td></tr>
				<tr><td>User</td><td>%d</td></tr>
				<tr><td>Feature</td><td>%s</td></tr>
				<tr><td>Tool</td><td>%s</td></tr>
				<tr><td>At</td><td>%s</td></tr>
			</table>
			<pre style="background: #f4f4f4; padding: 10px;">%s</pre>
		</div>
	`, html.EscapeString(a.JobID), a.UserID, html.EscapeString(a.Feature), html.EscapeString(tool),
		a.OccurredAt.Format(time.RFC3339), html.EscapeString(a.Error))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send failure alert for job %s: %w", a.JobID, err)
	}
	return nil
}

type noopMailer struct{}

func (noopMailer) SendFailureAlert(Alert) error { return nil }
