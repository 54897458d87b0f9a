package transport

import (
	"context"
	"fmt"
	"net"
)

// TCPDialer connects to a MAVLink TCP endpoint, the usual way to reach a
// SITL instance or a companion computer bridging a serial radio.
type TCPDialer struct {
	Host string
	Port int
}

func NewTCPDialer(host string, port int) *TCPDialer {
	return &TCPDialer{Host: host, Port: port}
}

func (d *TCPDialer) String() string {
	return fmt.Sprintf("tcp://%s:%d", d.Host, d.Port)
}

func (d *TCPDialer) Dial(ctx context.Context) (Transport, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", d.Host, d.Port))
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", d.String(), err)
	}
	return &netTransport{conn: conn}, nil
}

type netTransport struct {
	conn   net.Conn
	closed bool
}

func (t *netTransport) Read(ctx context.Context, buf []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(dl)
	}
	return t.conn.Read(buf)
}

func (t *netTransport) Write(ctx context.Context, buf []byte) error {
	if t.closed {
		return ErrClosed
	}
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(dl)
	}
	_, err := t.conn.Write(buf)
	return err
}

func (t *netTransport) Close() error {
	t.closed = true
	return t.conn.Close()
}
