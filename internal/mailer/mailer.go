package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/kadankyi1/amforex/internal/config"
	"github.com/kadankyi1/amforex/internal/util"
)

// Mailer delivers one-time passcodes. Implementations must be safe for
// concurrent use; services dispatch sends fire-and-forget.
type Mailer interface {
	SendPasscode(toEmail, recipientName, code string, issuedAt time.Time) error
}

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	mailConfig := cfg.Mail

	var auth smtp.Auth
	if mailConfig.Username != "" {
		auth = smtp.PlainAuth("", mailConfig.Username, mailConfig.Password, mailConfig.SMTPHost)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", mailConfig.SMTPHost, mailConfig.SMTPPort),
		auth: auth,
		from: mailConfig.From,
	}
}

func (m *SMTPMailer) SendPasscode(toEmail, recipientName, code string, issuedAt time.Time) error {
	subject := "Your login passcode"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour login passcode is %s.\r\n\r\nIt was requested on %s. If you did not request it, contact support immediately.\r\n",
		recipientName, code, issuedAt.Format("January 2, 2006, 3:04 pm"))

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + toEmail + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{toEmail}, []byte(msg.String())); err != nil {
		util.Error("failed to send passcode email",
			util.String("to", toEmail),
			util.ErrorField(err))
		return fmt.Errorf("failed to send passcode email: %w", err)
	}

	util.Info("Passcode email sent", util.String("to", toEmail))
	return nil
}
