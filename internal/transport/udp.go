package transport

import (
	"context"
	"fmt"
	"net"
)

// UDPDialer binds a local UDP port and, once a remote peer is known
// (either configured up front or learned from the first received
// datagram, the usual MAVLink "GCS listens, vehicle announces" pattern),
// sends to it. RemoteHost/RemotePort may be left zero to defer to the
// first sender.
type UDPDialer struct {
	LocalPort  int
	RemoteHost string
	RemotePort int
}

func NewUDPDialer(localPort int, remoteHost string, remotePort int) *UDPDialer {
	return &UDPDialer{LocalPort: localPort, RemoteHost: remoteHost, RemotePort: remotePort}
}

func (d *UDPDialer) String() string {
	if d.RemoteHost == "" {
		return fmt.Sprintf("udp://:%d (listen)", d.LocalPort)
	}
	return fmt.Sprintf("udp://%s:%d (local :%d)", d.RemoteHost, d.RemotePort, d.LocalPort)
}

func (d *UDPDialer) Dial(ctx context.Context) (Transport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: d.LocalPort})
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp :%d: %w", d.LocalPort, err)
	}

	t := &udpTransport{conn: conn}
	if d.RemoteHost != "" {
		addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", d.RemoteHost, d.RemotePort))
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("transport: resolve remote %s:%d: %w", d.RemoteHost, d.RemotePort, err)
		}
		t.remote = addr
	}
	return t, nil
}

type udpTransport struct {
	conn   *net.UDPConn
	remote *net.UDPAddr
	closed bool
}

// Read returns bytes from any peer and, if no remote was pre-configured,
// latches onto the first sender's address as the reply target.
func (t *udpTransport) Read(ctx context.Context, buf []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(dl)
	}
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return n, err
	}
	if t.remote == nil {
		t.remote = addr
	}
	return n, nil
}

func (t *udpTransport) Write(ctx context.Context, buf []byte) error {
	if t.closed {
		return ErrClosed
	}
	if t.remote == nil {
		return fmt.Errorf("transport: udp remote peer not yet known")
	}
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(dl)
	}
	_, err := t.conn.WriteToUDP(buf, t.remote)
	return err
}

func (t *udpTransport) Close() error {
	t.closed = true
	return t.conn.Close()
}
