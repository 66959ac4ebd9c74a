package services

import (
	"context"
	"io"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
)

// Uploader stores a file and returns a URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error)
}

// MailMessage is a plain-text email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// EventPublisher announces committed status changes to other systems.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusEvent) error
}

// Analytics records product usage events.
type Analytics interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
