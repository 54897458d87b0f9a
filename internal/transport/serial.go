package transport

import (
	"context"
	"fmt"

	"go.bug.st/serial"
)

// SerialDialer opens a serial port, the usual way to reach a vehicle over
// a USB telemetry radio or a direct FTDI/UART cable.
type SerialDialer struct {
	Device string
	Baud   int
}

// NewSerialDialer returns a Dialer for the given device path and baud
// rate (e.g. "/dev/ttyUSB0", 57600).
func NewSerialDialer(device string, baud int) *SerialDialer {
	return &SerialDialer{Device: device, Baud: baud}
}

func (d *SerialDialer) String() string {
	return fmt.Sprintf("serial://%s@%d", d.Device, d.Baud)
}

func (d *SerialDialer) Dial(ctx context.Context) (Transport, error) {
	mode := &serial.Mode{BaudRate: d.Baud}
	port, err := serial.Open(d.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", d.Device, err)
	}
	return &serialTransport{port: port}, nil
}

type serialTransport struct {
	port   serial.Port
	closed bool
}

func (t *serialTransport) Read(ctx context.Context, buf []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	return t.port.Read(buf)
}

func (t *serialTransport) Write(ctx context.Context, buf []byte) error {
	if t.closed {
		return ErrClosed
	}
	_, err := t.port.Write(buf)
	return err
}

func (t *serialTransport) Close() error {
	t.closed = true
	return t.port.Close()
}
