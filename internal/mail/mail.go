// Package mail is the outbound email boundary: a narrow Sender interface and
// an SMTP implementation. Credentials and transport policy live with the
// caller's configuration, not here.
package mail

import (
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"
)

// Attachment is a finished document to send along with the message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is a fully assembled outbound mail.
type Message struct {
	From       string
	To         string
	Subject    string
	Text       string
	Attachment *Attachment
}

// Sender delivers a message or reports a transport error.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends through an SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if att := msg.Attachment; att != nil {
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Content)
			return err
		}))
	}

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
