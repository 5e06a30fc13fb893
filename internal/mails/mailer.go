package mails

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

type Mailer struct {
	Dialer       *mail.Dialer
	Sender       string
	RetriesCount int
	RetryDelay   time.Duration
}

func New(host string, port int, timeout time.Duration, username, password, sender string, retriesCount int) *Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = timeout
	if retriesCount < 1 {
		retriesCount = 1
	}
	return &Mailer{
		Dialer:       dialer,
		Sender:       sender,
		RetriesCount: retriesCount,
		RetryDelay:   500 * time.Millisecond,
	}
}

// Message is a rendered email.
type Message struct {
	Subject   string
	PlainBody string
}

func Render(tmplName string, tmplData any) (*Message, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+tmplName)
	if err != nil {
		return nil, err
	}
	var subject, plainBody bytes.Buffer
	if err = tmpl.ExecuteTemplate(&subject, "subject", tmplData); err != nil {
		return nil, err
	}
	if err = tmpl.ExecuteTemplate(&plainBody, "plainBody", tmplData); err != nil {
		return nil, err
	}
	return &Message{Subject: subject.String(), PlainBody: plainBody.String()}, nil
}

func (m *Mailer) Send(recipient string, tmplName string, tmplData any) error {
	rendered, err := Render(tmplName, tmplData)
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.PlainBody)
	for i := 0; i < m.RetriesCount; i++ {
		err = m.Dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		time.Sleep(m.RetryDelay)
	}
	return fmt.Errorf("sending mail to %s: %w", recipient, err)
}
