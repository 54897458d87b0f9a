// Package link couples a single transport to the MAVLink codec: it reads
// raw bytes, feeds them to a streaming parser, and stamps outbound
// frames with the ground station's identity before writing them back.
package link

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/metrics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/transport"
)

// Ground-station identity, per MAVLink convention: system id 255 marks a
// GCS rather than a vehicle, component id 190 is MAV_COMP_ID_MISSIONPLANNER.
const (
	GCSSystemID    byte = 255
	GCSComponentID byte = 190
)

const readBufSize = 4096

// Link owns one transport and the parser/stats bound to it. Session
// creates a Link per connection attempt and discards it on disconnect.
type Link struct {
	dialer    transport.Dialer
	transport transport.Transport
	parser    *mavlink.Parser
	metrics   *metrics.Registry
	logger    *log.Logger

	seq byte
}

// New wraps an already-dialed transport.
func New(dialer transport.Dialer, t transport.Transport, m *metrics.Registry, logger *log.Logger) *Link {
	return &Link{
		dialer:    dialer,
		transport: t,
		parser:    mavlink.NewParser(),
		metrics:   m,
		logger:    logger,
	}
}

// ReadFrame blocks until the next valid frame arrives, a CRC/resync
// event is logged and skipped, or ctx is cancelled / the transport dies.
func (l *Link) ReadFrame(ctx context.Context) (*mavlink.Frame, error) {
	buf := make([]byte, readBufSize)
	for {
		n, err := l.transport.Read(ctx, buf)
		if err != nil {
			return nil, fmt.Errorf("link: read: %w", err)
		}
		if n == 0 {
			continue
		}
		l.metrics.BytesReceived.Add(float64(n))

		for _, res := range l.parser.Feed(buf[:n]) {
			if res.DroppedBytes > 0 {
				l.metrics.ResyncEvents.Inc()
				l.logger.Printf("link: dropped %d bytes resynchronizing", res.DroppedBytes)
			}
			var unk *mavlink.UnknownMessageError
			if errors.As(res.Err, &unk) {
				l.metrics.UnknownMessages.Inc()
				l.logger.Printf("link: unknown message id %d (%d byte payload)", unk.ID, len(res.Frame.Payload))
				return res.Frame, nil
			}
			if res.Err != nil {
				l.metrics.CRCFailures.Inc()
				l.logger.Printf("link: frame rejected: %v", res.Err)
				continue
			}
			if res.Frame != nil {
				return res.Frame, nil
			}
		}
	}
}

// SendMessage encodes msg as a v2 frame stamped with the GCS identity and
// an auto-incrementing sequence number, then writes it to the transport.
func (l *Link) SendMessage(ctx context.Context, msg mavlink.Message) error {
	raw, err := mavlink.EncodeFrame(2, l.seq, GCSSystemID, GCSComponentID, msg)
	if err != nil {
		return fmt.Errorf("link: encode: %w", err)
	}
	l.seq++

	if err := l.transport.Write(ctx, raw); err != nil {
		return fmt.Errorf("link: write: %w", err)
	}
	l.metrics.BytesSent.Add(float64(len(raw)))
	return nil
}

// Close releases the underlying transport.
func (l *Link) Close() error {
	return l.transport.Close()
}

// String identifies the underlying dialer for logging.
func (l *Link) String() string {
	return l.dialer.String()
}
