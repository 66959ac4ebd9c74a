// Package events publishes document status changes to NATS.
//
// Subject convention: documents.<entity_type>.<to_status>, e.g. documents.invoice.paid.
// Subscribers can follow one entity type with documents.invoice.> or everything with documents.>.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/nats-io/nats.go"
)

const subjectPrefix = "documents"

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes StatusEvents as JSON.
type NATSPublisher struct {
	nc     conn
	logger *slog.Logger
}

// Connect dials NATS and keeps reconnecting in the background for the life of the process.
func Connect(url string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("disposal-backoffice"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrl()))
	return newPublisher(nc, logger), nil
}

func newPublisher(nc conn, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, logger: logger}
}

// Subject returns the subject an event is published on.
func Subject(ev domain.StatusEvent) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, ev.EntityType, ev.ToStatus)
}

// PublishStatusChanged publishes ev. Delivery is fire-and-forget: a nil error means the
// message was handed to the client, not that a subscriber received it.
func (p *NATSPublisher) PublishStatusChanged(ctx context.Context, ev domain.StatusEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	subject := Subject(ev)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("Status event published", slog.String("subject", subject), slog.String("document_id", ev.DocumentID))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
