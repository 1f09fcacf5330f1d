package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
}

func (r *recordingConn) Publish(subject string, data []byte) error {
	r.subject = subject
	r.data = data
	return r.err
}

func TestPublisherEncodesEvent(t *testing.T) {
	conn := &recordingConn{}
	publisher := NewPublisher(conn, "", zerolog.Nop())

	exportedAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	err := publisher.PublishExport(context.Background(), ReportExported{Kind: "registrations", Rows: 3, ExportedAt: exportedAt})
	require.NoError(t, err)
	require.Equal(t, DefaultSubject, conn.subject)

	var decoded ReportExported
	require.NoError(t, json.Unmarshal(conn.data, &decoded))
	require.Equal(t, "registrations", decoded.Kind)
	require.Equal(t, 3, decoded.Rows)
	require.True(t, exportedAt.Equal(decoded.ExportedAt))
}

func TestPublisherWrapsConnectionErrors(t *testing.T) {
	cause := errors.New("nats: connection closed")
	publisher := NewPublisher(&recordingConn{err: cause}, "campus.reports", zerolog.Nop())

	err := publisher.PublishExport(context.Background(), ReportExported{Kind: "announcements"})
	require.ErrorIs(t, err, cause)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, publisher.PublishExport(ctx, ReportExported{}), context.Canceled)
}
