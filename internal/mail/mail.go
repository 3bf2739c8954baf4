package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// Dispatcher sends a single HTML email.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, html string) error
}

type ResendDispatcher struct {
	client *resend.Client
	from   string
}

func NewResendDispatcher(apiKey, from string) *ResendDispatcher {
	return &ResendDispatcher{client: resend.NewClient(apiKey), from: from}
}

func (d *ResendDispatcher) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	sent, err := d.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	log.Printf("mail sent id=%s to=%s", sent.Id, to)
	return nil
}

// LogDispatcher writes messages to the log instead of delivering them.
// Used in development when no RESEND_API_KEY is set.
type LogDispatcher struct{}

func (LogDispatcher) Send(_ context.Context, to, subject, html string) error {
	log.Printf("mail (not delivered) to=%s subject=%q body=%s", to, subject, html)
	return nil
}

// New picks the Resend dispatcher when an API key is configured.
func New(apiKey, from string) Dispatcher {
	if apiKey == "" {
		log.Println("RESEND_API_KEY not set, verification mails will only be logged")
		return LogDispatcher{}
	}
	return NewResendDispatcher(apiKey, from)
}
