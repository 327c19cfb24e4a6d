package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"cosysta-be/internal/config"
)

// Mailer sends one HTML email. Implementations are fire-and-forget from the
// order flow's point of view: a failed send is logged, never fatal.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
	}
}

func (m *smtpMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := fmt.Sprintf(
		"From: \"Cosysta App\" <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n%s",
		m.from, to, subject, htmlBody,
	)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}
