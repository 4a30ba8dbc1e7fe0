// Package notify turns new articles into outbound mail messages.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/pevans/newswatch"
)

// Sender submits one plain-text message to a mail relay.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendError reports a notification that could not be submitted.
type SendError struct {
	Identifier string
	Err        error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to notify %s: %v", e.Identifier, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Message is one outbound notification.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Notifier sends one message per article to a fixed recipient with a fixed
// subject.
type Notifier struct {
	sender    Sender
	recipient string
	subject   string
}

// New creates a Notifier.
func New(sender Sender, recipient, subject string) *Notifier {
	return &Notifier{
		sender:    sender,
		recipient: recipient,
		subject:   subject,
	}
}

// Message builds the message for the article found at id.
func (n *Notifier) Message(id string, article newswatch.Article) Message {
	return Message{
		Recipient: n.recipient,
		Subject:   n.subject,
		Body:      FormatBody(id, article),
	}
}

// Notify sends the message for the article found at id. Failures are
// returned as *SendError.
func (n *Notifier) Notify(ctx context.Context, id string, article newswatch.Article) error {
	msg := n.Message(id, article)
	if err := n.sender.Send(ctx, msg.Recipient, msg.Subject, msg.Body); err != nil {
		return &SendError{Identifier: id, Err: err}
	}
	return nil
}

// FormatBody renders the article as the plain-text message body: title,
// summary and body blocks separated by blank lines, then the item link.
func FormatBody(id string, article newswatch.Article) string {
	var b strings.Builder

	b.WriteString(article.Title)
	b.WriteString("\n\n")
	b.WriteString(article.Summary)
	b.WriteString("\n\n")
	b.WriteString(article.BodyText())
	b.WriteString("\n\n")
	b.WriteString("Link: ")
	b.WriteString(id)
	b.WriteString("\n")

	return b.String()
}
