package msp

import (
	"context"
	"fmt"
	"log"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/metrics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/transport"
)

const readBufSize = 4096

// Link couples a single transport to the MSP codec, the MSP-protocol
// analogue of internal/link.Link. Sessions speaking to a Betaflight/iNav
// flight controller use this instead of the MAVLink link.
type Link struct {
	dialer    transport.Dialer
	transport transport.Transport
	parser    *Parser
	metrics   *metrics.Registry
	logger    *log.Logger
}

// New wraps an already-dialed transport.
func New(dialer transport.Dialer, t transport.Transport, m *metrics.Registry, logger *log.Logger) *Link {
	return &Link{
		dialer:    dialer,
		transport: t,
		parser:    NewParser(),
		metrics:   m,
		logger:    logger,
	}
}

// ReadFrame blocks until the next valid MSP frame arrives, a checksum
// failure is logged and skipped, or ctx is cancelled / the transport dies.
func (l *Link) ReadFrame(ctx context.Context) (*Frame, error) {
	buf := make([]byte, readBufSize)
	for {
		n, err := l.transport.Read(ctx, buf)
		if err != nil {
			return nil, fmt.Errorf("msp link: read: %w", err)
		}
		if n == 0 {
			continue
		}
		l.metrics.BytesReceived.Add(float64(n))

		for _, res := range l.parser.Feed(buf[:n]) {
			if res.DroppedBytes > 0 {
				l.metrics.ResyncEvents.Inc()
				l.logger.Printf("msp link: dropped %d bytes resynchronizing", res.DroppedBytes)
			}
			if res.Err != nil {
				l.metrics.CRCFailures.Inc()
				l.logger.Printf("msp link: frame rejected: %v", res.Err)
				continue
			}
			if res.Frame != nil {
				return res.Frame, nil
			}
		}
	}
}

// SendCommand writes a v2-framed command with the given payload,
// MSP's equivalent of a MAVLink message send.
func (l *Link) SendCommand(ctx context.Context, cmd uint16, payload []byte) error {
	raw, err := EncodeFrame(&Frame{Version: 2, Direction: DirToFC, Cmd: cmd, Payload: payload})
	if err != nil {
		return fmt.Errorf("msp link: encode: %w", err)
	}
	if err := l.transport.Write(ctx, raw); err != nil {
		return fmt.Errorf("msp link: write: %w", err)
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
