package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "reports.exported"

// ReportExported is emitted after a report document is produced.
type ReportExported struct {
	Viewer        string    `json:"viewer,omitempty"`
	Kind          string    `json:"kind"`
	Rows          int       `json:"rows"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	ExportedAt    time.Time `json:"exported_at"`
}

// Conn is the subset of a NATS connection used for publishing.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher sends report events over NATS.
type Publisher struct {
	conn    Conn
	subject string
	logger  zerolog.Logger
}

// NewPublisher wraps an established connection.
func NewPublisher(conn Conn, subject string, logger zerolog.Logger) *Publisher {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "export_publisher").Logger(),
	}
}

// Connect dials NATS and returns a publisher plus the connection for shutdown.
func Connect(url, subject string, logger zerolog.Logger) (*Publisher, *nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("smart-campus-reports"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect nats: %w", err)
	}
	return NewPublisher(conn, subject, logger), conn, nil
}

// PublishExport encodes the event and publishes it on the configured subject.
func (p *Publisher) PublishExport(ctx context.Context, event ReportExported) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode export event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish export event: %w", err)
	}
	p.logger.Debug().Str("subject", p.subject).Str("kind", event.Kind).Msg("export event published")
	return nil
}
