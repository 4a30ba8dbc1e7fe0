package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPSender submits messages to an authenticated SMTP relay. The relay is
// expected to offer STARTTLS on the submission port.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	from     string

	// sendMail is smtp.SendMail outside of tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
}

// NewSMTPSender creates a sender for the relay at host:port. An empty
// username disables authentication.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		username: username,
		password: password,
		from:     from,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

// Send submits one message. net/smtp has no context support, so ctx is only
// checked before the connection is made.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := buildMessage(s.from, to, subject, body, s.now())
	if err := s.sendMail(s.addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.addr, err)
	}
	return nil
}

// buildMessage renders a plain-text UTF-8 message with CRLF line endings.
func buildMessage(from, to, subject, body string, date time.Time) []byte {
	var b bytes.Buffer

	header := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	header("From", headerValue(from))
	header("To", headerValue(to))
	header("Subject", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return b.Bytes()
}

// headerValue drops line breaks so a value can't start a new header.
func headerValue(v string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(v)
}
