package services

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer sends transactional mail over SMTP. When no SMTP host is configured
// (development), the reset link is logged instead of mailed so the flow stays
// usable without credentials.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Enabled reports whether real mail will be sent.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// SendPasswordReset mails the password reset link to the given address.
func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	if !m.Enabled() {
		log.Printf("SMTP not configured; password reset link for %s: %s", to, resetURL)
		return nil
	}

	body := fmt.Sprintf(
		"You requested a password reset for your Solace journal account.\r\n\r\n"+
			"Open this link to choose a new password (valid for 1 hour):\r\n%s\r\n\r\n"+
			"If you did not request this, you can safely ignore this email.\r\n",
		resetURL,
	)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Reset your Solace password\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		m.from, to, body,
	)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}
