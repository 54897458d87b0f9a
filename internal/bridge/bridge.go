// Package bridge forwards RC override traffic to a SITL instance over a
// second UDP peer, for the common setup where the primary link to a
// simulated vehicle is TCP (MAVProxy) but joystick-style input is
// delivered over its own UDP control socket.
package bridge

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
)

// SITLForwarder relays encoded RC_CHANNELS_OVERRIDE frames to a fixed
// UDP peer, independent of the session's primary transport.
type SITLForwarder struct {
	conn   *net.UDPConn
	logger *log.Logger
}

// Dial opens the forwarding socket to host:port.
func Dial(host string, port int, logger *log.Logger) (*SITLForwarder, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("bridge: resolve %s:%d: %w", host, port, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s:%d: %w", host, port, err)
	}
	return &SITLForwarder{conn: conn, logger: logger}, nil
}

// Forward encodes msg as a v2 frame and sends it to the SITL peer,
// independent of and in addition to whatever the primary link does with
// the same override message.
func (f *SITLForwarder) Forward(ctx context.Context, seq byte, msg *mavlink.MessageRCChannelsOverride) error {
	raw, err := mavlink.EncodeFrame(2, seq, 255, 190, msg)
	if err != nil {
		return fmt.Errorf("bridge: encode: %w", err)
	}
	if _, err := f.conn.Write(raw); err != nil {
		return fmt.Errorf("bridge: write: %w", err)
	}
	return nil
}

func (f *SITLForwarder) Close() error {
	return f.conn.Close()
}
